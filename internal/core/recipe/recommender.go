package recipe

import (
	"context"
	"time"

	"moodchef/internal/core/mood"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

// Recommendation 一次推薦的完整結果
type Recommendation struct {
	Resolution
	Recipes []Recipe `json:"recipes"`
}

// Found 是否有任何食譜
func (r Recommendation) Found() bool {
	return len(r.Recipes) > 0
}

// Recommender 串接類型解析與搜尋
type Recommender struct {
	resolver *Resolver
	engine   *Engine
}

// NewRecommender 創建推薦器
func NewRecommender(resolver *Resolver, engine *Engine) *Recommender {
	return &Recommender{resolver: resolver, engine: engine}
}

// Recommend 解析不會失敗，搜尋失敗時回傳空清單
func (r *Recommender) Recommend(ctx context.Context, state mood.State) Recommendation {
	start := time.Now()
	res := r.resolver.Resolve(ctx, state)
	recipes := r.engine.Search(ctx, res.Intent)

	common.LogInfo("recommendation completed",
		zap.String("primary_emotion", res.Summary.PrimaryEmotion),
		zap.String("type", res.Intent.Type),
		zap.Bool("fallback", res.Fallback),
		zap.Int("recipes", len(recipes)),
		zap.Duration("duration", time.Since(start)),
	)
	return Recommendation{Resolution: res, Recipes: recipes}
}

// FindVideoURL 查詢食譜教學影片
func (r *Recommender) FindVideoURL(ctx context.Context, title string) (string, bool) {
	return r.resolver.FindVideoURL(ctx, title)
}
