package recipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"moodchef/internal/core/cache"
	"moodchef/internal/infrastructure/config"
	"moodchef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const ingredientImageBase = "https://spoonacular.com/cdn/ingredients_100x100/"

// SpoonacularClient Spoonacular 食譜搜尋與詳細資料客戶端
type SpoonacularClient struct {
	client *resty.Client
	cache  cache.Store
}

type searchResponse struct {
	Results      []Summary `json:"results"`
	TotalResults int       `json:"totalResults"`
}

type informationResponse struct {
	ID                  int     `json:"id"`
	Title               string  `json:"title"`
	Image               string  `json:"image"`
	ReadyInMinutes      int     `json:"readyInMinutes"`
	Servings            int     `json:"servings"`
	HealthScore         float64 `json:"healthScore"`
	ExtendedIngredients []struct {
		ID     int     `json:"id"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Unit   string  `json:"unit"`
		Image  string  `json:"image"`
	} `json:"extendedIngredients"`
	AnalyzedInstructions []struct {
		Name  string `json:"name"`
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
}

// NewSpoonacularClient 創建客戶端；store 為 nil 時不快取詳細資料
func NewSpoonacularClient(cfg config.SpoonacularConfig, store cache.Store) *SpoonacularClient {
	return &SpoonacularClient{
		client: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetHeader("x-api-key", cfg.APIKey).
			SetHeader("Accept", "application/json"),
		cache: store,
	}
}

// SearchRecipes 以關鍵字搜尋，最多回傳 number 筆摘要
func (c *SpoonacularClient) SearchRecipes(ctx context.Context, query string, number int) ([]Summary, error) {
	var body searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":  query,
			"number": strconv.Itoa(number),
		}).
		SetResult(&body).
		Get("/recipes/complexSearch")
	if err != nil {
		return nil, fmt.Errorf("recipe search request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("recipe search returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return body.Results, nil
}

// RecipeDetails 取得單一食譜的食材、步驟與健康分數
func (c *SpoonacularClient) RecipeDetails(ctx context.Context, id int) (*Recipe, error) {
	key := fmt.Sprintf("recipe:%d", id)
	if c.cache != nil {
		if val, err := c.cache.Get(ctx, key); err == nil {
			var cached Recipe
			if err := common.ParseJSON(val, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			common.LogWarn("recipe cache read failed", zap.Int("recipe_id", id), zap.Error(err))
		}
	}

	var body informationResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetQueryParam("includeNutrition", "false").
		SetResult(&body).
		Get("/recipes/{id}/information")
	if err != nil {
		return nil, fmt.Errorf("recipe %d detail request failed: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("recipe %d detail returned status %d", id, resp.StatusCode())
	}

	r := body.toRecipe()
	if c.cache != nil {
		if data, err := common.ToJSON(r); err == nil {
			if err := c.cache.Set(ctx, key, data); err != nil {
				common.LogWarn("recipe cache write failed", zap.Int("recipe_id", id), zap.Error(err))
			}
		}
	}
	return r, nil
}

// toRecipe 只取第一組步驟，沒有步驟時回傳空陣列
func (b *informationResponse) toRecipe() *Recipe {
	r := &Recipe{
		ID:             b.ID,
		Title:          b.Title,
		Image:          b.Image,
		ReadyInMinutes: b.ReadyInMinutes,
		Servings:       b.Servings,
		HealthScore:    b.HealthScore,
		Ingredients:    make([]Ingredient, 0, len(b.ExtendedIngredients)),
		Instructions:   []Instruction{},
	}

	for _, ing := range b.ExtendedIngredients {
		img := ing.Image
		if img != "" && !strings.HasPrefix(img, "http") {
			img = ingredientImageBase + img
		}
		r.Ingredients = append(r.Ingredients, Ingredient{
			ID:     ing.ID,
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Image:  img,
		})
	}

	if len(b.AnalyzedInstructions) > 0 {
		for i, s := range b.AnalyzedInstructions[0].Steps {
			n := s.Number
			if n <= 0 {
				n = i + 1
			}
			r.Instructions = append(r.Instructions, Instruction{Number: n, Step: s.Step})
		}
	}
	return r
}
