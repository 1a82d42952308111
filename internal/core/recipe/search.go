package recipe

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxResults 每次推薦最多回傳的食譜數
	MaxResults = 3
	// searchPageSize 每次搜尋請求的筆數
	searchPageSize = 10
	// maxPadIterations 循環補齊的安全上限
	maxPadIterations = 10
)

// FallbackTerms 主要搜尋結果不足時隨機選用的通用詞
var FallbackTerms = []string{"dinner", "quick", "vegetarian", "easy", "healthy", "pasta", "soup", "salad"}

// Source 食譜搜尋與詳細資料來源
type Source interface {
	SearchRecipes(ctx context.Context, query string, number int) ([]Summary, error)
	RecipeDetails(ctx context.Context, id int) (*Recipe, error)
}

// Engine 搜尋、去重、洗牌、補齊並取得詳細資料
type Engine struct {
	source Source
	terms  []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine 創建搜尋引擎；rng 為 nil 時以目前時間為種子
func NewEngine(source Source, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &Engine{source: source, terms: FallbackTerms, rng: rng}
}

// Search 回傳 0 到 3 筆食譜；只有在所有搜尋都沒有結果時才會是空的
func (e *Engine) Search(ctx context.Context, intent Intent) []Recipe {
	results := e.query(ctx, intent.Type)

	if len(results) < MaxResults {
		term := e.fallbackTerm()
		common.LogDebug("too few recipes, trying fallback term",
			zap.String("type", intent.Type),
			zap.Int("found", len(results)),
			zap.String("fallback", term),
		)
		results = append(results, e.query(ctx, term)...)
	}

	unique := DedupByID(results)
	if len(unique) == 0 {
		common.LogInfo("no recipes found", zap.String("type", intent.Type))
		return []Recipe{}
	}

	e.shuffle(unique)
	candidates := Pad(unique, MaxResults)
	if len(candidates) > MaxResults {
		candidates = candidates[:MaxResults]
	}

	hydrated := e.hydrate(ctx, candidates)
	if len(hydrated) == 0 {
		common.LogWarn("all recipe detail requests failed", zap.String("type", intent.Type))
		return []Recipe{}
	}

	padded := Pad(hydrated, MaxResults)
	if len(padded) > MaxResults {
		padded = padded[:MaxResults]
	}

	out := make([]Recipe, len(padded))
	for i, r := range padded {
		out[i] = r.Clone()
		out[i].MoodMatch = intent.Reason
		out[i].Saved = false
	}
	return out
}

// query 失敗的搜尋視為沒有結果
func (e *Engine) query(ctx context.Context, term string) []Summary {
	results, err := e.source.SearchRecipes(ctx, term, searchPageSize)
	if err != nil {
		common.LogWarn("recipe search failed", zap.String("query", term), zap.Error(err))
		return nil
	}
	return results
}

// hydrate 並行取得詳細資料；相同 ID 只請求一次，
// 單筆失敗會被丟棄，不影響其他請求
func (e *Engine) hydrate(ctx context.Context, candidates []Summary) []Recipe {
	ids := make([]int, 0, len(candidates))
	seen := make(map[int]int, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.ID]; !ok {
			seen[c.ID] = len(ids)
			ids = append(ids, c.ID)
		}
	}

	details := make([]*Recipe, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			r, err := e.source.RecipeDetails(ctx, id)
			if err != nil {
				common.LogWarn("recipe detail fetch failed", zap.Int("recipe_id", id), zap.Error(err))
				return nil
			}
			details[i] = r
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Recipe, 0, len(candidates))
	for _, c := range candidates {
		if r := details[seen[c.ID]]; r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (e *Engine) fallbackTerm() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.terms[e.rng.IntN(len(e.terms))]
}

// shuffle Fisher-Yates 洗牌
func (e *Engine) shuffle(items []Summary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// DedupByID 依 ID 去重，保留第一次出現的順序
func DedupByID(items []Summary) []Summary {
	seen := make(map[int]struct{}, len(items))
	out := make([]Summary, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Pad 循環重複既有項目直到長度達到 target，最多重複 maxPadIterations 次
func Pad[T any](items []T, target int) []T {
	out := append([]T(nil), items...)
	n := len(items)
	if n == 0 {
		return out
	}
	for i := 0; len(out) < target && i < maxPadIterations; i++ {
		out = append(out, items[i%n])
	}
	return out
}
