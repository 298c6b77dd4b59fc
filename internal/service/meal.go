package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/models"
	"github.com/pageza/calai/backend/internal/types"
)

// Request limits, mirrored by the validate tags on types.AnalyzeMealRequest
const (
	MaxMessageLength   = 5000
	MaxSessionIDLength = 64
)

type MealService struct {
	store     ISessionStore
	generator Generator
	cache     AnalysisCache
	logger    *zap.Logger
}

// NewMealService wires the analysis pipeline. cache may be nil.
func NewMealService(store ISessionStore, generator Generator, cache AnalysisCache, logger *zap.Logger) IMealService {
	return &MealService{
		store:     store,
		generator: generator,
		cache:     cache,
		logger:    logger.Named("meal"),
	}
}

func (s *MealService) Provider() string {
	return s.generator.Name()
}

// ValidateAnalyzeRequest checks the client fields and returns the requested language
func ValidateAnalyzeRequest(req types.AnalyzeMealRequest) (types.Language, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Message) == "" {
		return "", fmt.Errorf("%w: message is required", ErrValidation)
	}
	lang, _ := types.ParseLanguage(req.Language)
	return lang, nil
}

// Analyze runs one meal description through the pipeline. Provider and parse failures are
// answered with the fallback estimate; only validation and storage errors are returned.
func (s *MealService) Analyze(ctx context.Context, req types.AnalyzeMealRequest) (*types.AnalyzeMealResponse, error) {
	lang, err := ValidateAnalyzeRequest(req)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetOrCreateSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.AppendMessage(ctx, session.ID, models.RoleUser, req.Message, nil); err != nil {
		return nil, err
	}

	prompt := BuildMealAnalysisPrompt(req.Message, lang, nil)
	result := s.analyze(ctx, prompt)

	reply, err := s.store.AppendMessage(ctx, session.ID, models.RoleAssistant, result.AIResponse, result)
	if err != nil {
		return nil, err
	}

	analysesTotal.WithLabelValues(s.generator.Name(), string(result.Source)).Inc()
	s.logger.Info("meal analyzed",
		zap.String("session_id", session.ID),
		zap.String("source", string(result.Source)),
		zap.Int("food_items", len(result.FoodItems)),
		zap.Float64("total_calories", result.TotalCalories),
	)

	return &types.AnalyzeMealResponse{
		MessageID:  reply.ID.String(),
		Nutrition:  result.Nutrition,
		AIResponse: result.AIResponse,
		SessionID:  session.ID,
		Timestamp:  reply.CreatedAt,
	}, nil
}

func (s *MealService) analyze(ctx context.Context, prompt string) *types.NutritionResult {
	provider := s.generator.Name()
	key := AnalysisCacheKey(provider, prompt)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			cacheOperations.WithLabelValues("get", "error").Inc()
			s.logger.Warn("analysis cache lookup failed", zap.Error(err))
		case ok:
			cacheOperations.WithLabelValues("get", "hit").Inc()
			return cached
		default:
			cacheOperations.WithLabelValues("get", "miss").Inc()
		}
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		gatewayDuration.WithLabelValues(provider, "error").Observe(time.Since(start).Seconds())
		if !errors.Is(err, ErrGatewayUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		s.logger.Warn("text generation failed, using fallback estimate",
			zap.String("provider", provider), zap.Error(err))
		return Fallback()
	}
	gatewayDuration.WithLabelValues(provider, "ok").Observe(time.Since(start).Seconds())

	result, err := ParseNutrition(raw)
	if err != nil {
		s.logger.Warn("could not parse model reply, using fallback estimate",
			zap.String("provider", provider), zap.Error(err), zap.Int("reply_length", len(raw)))
		return Fallback()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			cacheOperations.WithLabelValues("set", "error").Inc()
			s.logger.Warn("analysis cache write failed", zap.Error(err))
		} else {
			cacheOperations.WithLabelValues("set", "ok").Inc()
		}
	}

	return result
}
