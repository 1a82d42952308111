package session

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"moodchef/internal/core/recipe"
	"moodchef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SaveRequest 收藏請求；未指定 recipeId 時收藏目前選取的食譜
type SaveRequest struct {
	RecipeID *int `json:"recipeId"`
}

// CollectionResponse 收藏清單
type CollectionResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
	Count   int             `json:"count"`
}

// SaveResponse 收藏結果；Added 為 false 代表已在收藏中
type SaveResponse struct {
	Recipe recipe.Recipe `json:"recipe"`
	Added  bool          `json:"added"`
	Count  int           `json:"count"`
}

// ListCollection 列出收藏
func (h *Handler) ListCollection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	list := s.Collection().List()
	c.JSON(http.StatusOK, CollectionResponse{Recipes: list, Count: len(list)})
}

// SaveRecipe 收藏食譜，同一 ID 只保留一份
func (h *Handler) SaveRecipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	var (
		r   recipe.Recipe
		err error
	)
	if req.RecipeID == nil {
		r, err = s.ActiveRecipe()
		if err != nil {
			h.fail(c, apiError(err))
			return
		}
	} else {
		var found bool
		r, found = s.FindRecommended(*req.RecipeID)
		if !found {
			h.fail(c, common.ErrRecipeNotAvailable)
			return
		}
	}

	store := s.Collection()
	added := store.Save(r)
	r.Saved = true

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, SaveResponse{Recipe: r, Added: added, Count: store.Len()})
}

// RemoveRecipe 移除收藏；不存在時不做任何事
func (h *Handler) RemoveRecipe(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("recipeId"))
	if err != nil {
		h.fail(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	store := s.Collection()
	store.Remove(id)
	list := store.List()
	c.JSON(http.StatusOK, CollectionResponse{Recipes: list, Count: len(list)})
}
