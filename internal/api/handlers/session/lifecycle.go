package session

import (
	"net/http"

	"moodchef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Create 建立新的會話
func (h *Handler) Create(c *gin.Context) {
	s := h.sessions.Create()
	common.LogInfo("session created", zap.String("session_id", s.ID))
	c.JSON(http.StatusCreated, s.Snapshot())
}

// Get 取得會話快照
func (h *Handler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// Delete 刪除會話
func (h *Handler) Delete(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		h.fail(c, common.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Continue 完成目前步驟並前進
func (h *Handler) Continue(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Continue(); err != nil {
		h.fail(c, apiError(err))
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// Skip 跳過目前步驟
func (h *Handler) Skip(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Skip(); err != nil {
		h.fail(c, apiError(err))
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// StartOver 清除心情與推薦，收藏保留
func (h *Handler) StartOver(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.StartOver()
	c.JSON(http.StatusOK, s.Snapshot())
}
