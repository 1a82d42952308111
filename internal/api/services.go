package api

import (
	"moodchef/internal/api/handlers/session"
	"moodchef/internal/core/ai/openrouter"
	"moodchef/internal/core/ai/service"
	"moodchef/internal/core/analysis"
	"moodchef/internal/core/cache"
	"moodchef/internal/core/capture"
	"moodchef/internal/core/image"
	"moodchef/internal/core/recipe"
	coresession "moodchef/internal/core/session"
	"moodchef/internal/infrastructure/config"
	"moodchef/internal/pkg/common"

	"go.uber.org/zap"
)

// Services 路由使用的所有服務
type Services struct {
	Cache       cache.Store
	Sessions    *coresession.Manager
	Facial      session.FacialAnalyzer
	Voice       session.VoiceAnalyzer
	Text        session.TextAnalyzer
	Recommender session.Recommender
	Recorder    session.AudioRecorder

	ai *service.Service
}

// NewServices 依設定建立外部服務客戶端與分析流程；store 可為 nil
func NewServices(cfg *config.Config, store cache.Store) *Services {
	common.LogInfo("initializing services",
		zap.Bool("cache_enabled", store != nil),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("whisper_model", cfg.OpenAI.WhisperModel),
		zap.String("sentiment_model", cfg.NLPCloud.Model),
	)

	aiService := service.NewService(openrouter.NewClient(cfg.OpenRouter), store)

	spoonacular := recipe.NewSpoonacularClient(cfg.Spoonacular, store)
	recommender := recipe.NewRecommender(
		recipe.NewResolver(aiService),
		recipe.NewEngine(spoonacular, nil),
	)

	images := image.NewService(cfg.Image.MaxSizeBytes)
	sentiment := analysis.NewNLPCloudClient(cfg.NLPCloud)

	return &Services{
		Cache:       store,
		Sessions:    coresession.NewManager(cfg.Session.MaxSessions, cfg.Session.TTL),
		Facial:      analysis.NewFacialAnalyzer(images, analysis.NewFacePPClient(cfg.FacePP)),
		Voice:       analysis.NewVoiceAnalyzer(analysis.NewWhisperTranscriber(cfg.OpenAI), sentiment),
		Text:        analysis.NewTextAnalyzer(sentiment),
		Recommender: recommender,
		Recorder:    capture.NewRecorder(cfg.Capture.MaxDuration, cfg.Capture.MaxAudioBytes),
		ai:          aiService,
	}
}

// Close 釋放服務資源
func (s *Services) Close() {
	if s.Sessions != nil {
		s.Sessions.Close()
	}
	if s.ai != nil {
		if err := s.ai.Close(); err != nil {
			common.LogWarn("failed to close ai service", zap.Error(err))
		}
	}
}
