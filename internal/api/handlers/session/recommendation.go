package session

import (
	"net/http"

	"moodchef/internal/core/recipe"
	"moodchef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NextRecipeResponse 循環後的選取結果
type NextRecipeResponse struct {
	Active      recipe.Recipe `json:"active"`
	ActiveIndex int           `json:"activeIndex"`
}

// VideoResponse 影片查詢結果
type VideoResponse struct {
	RecipeID int     `json:"recipeId"`
	Title    string  `json:"title"`
	VideoURL *string `json:"videoUrl"`
	Found    bool    `json:"found"`
}

// Recommend 解析食譜類型並搜尋；重新呼叫會取代先前的推薦
func (h *Handler) Recommend(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	ticket, state, err := s.BeginRecommendation()
	if err != nil {
		h.fail(c, apiError(err))
		return
	}

	rec := h.recommender.Recommend(c.Request.Context(), state)
	if err := s.CommitRecommendation(ticket, rec); err != nil {
		common.LogInfo("recommendation discarded",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
		h.fail(c, apiError(err))
		return
	}

	view, err := s.RecommendationView()
	if err != nil {
		h.fail(c, apiError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// NextRecipe 選取下一筆推薦
func (h *Handler) NextRecipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	r, idx, err := s.NextRecipe()
	if err != nil {
		h.fail(c, apiError(err))
		return
	}
	c.JSON(http.StatusOK, NextRecipeResponse{Active: r, ActiveIndex: idx})
}

// Video 查詢目前食譜的教學影片；找不到時 videoUrl 為 null
func (h *Handler) Video(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	ticket, r, url, cached, err := s.BeginVideo()
	if err != nil {
		h.fail(c, apiError(err))
		return
	}

	if !cached {
		found, ok := h.recommender.FindVideoURL(c.Request.Context(), r.Title)
		if !ok {
			found = ""
		}
		if err := s.CommitVideo(ticket, r.ID, found); err != nil {
			h.fail(c, apiError(err))
			return
		}
		url = found
	}

	resp := VideoResponse{RecipeID: r.ID, Title: r.Title, Found: url != ""}
	if url != "" {
		resp.VideoURL = &url
	}
	c.JSON(http.StatusOK, resp)
}
