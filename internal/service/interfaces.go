package service

import (
	"context"
	"time"

	"github.com/pageza/calai/backend/internal/models"
	"github.com/pageza/calai/backend/internal/types"
)

// ISessionStore persists sessions, messages and their nutrition records
type ISessionStore interface {
	GetOrCreateSession(ctx context.Context, id string) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	MostRecentSession(ctx context.Context) (*models.Session, error)
	AppendMessage(ctx context.Context, sessionID, role, content string, nutrition *types.NutritionResult) (*models.Message, error)
	ListMessages(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, int64, error)
	CountMessages(ctx context.Context, sessionID string) (int64, error)
	NutritionMessages(ctx context.Context, sessionID string, from, to time.Time) ([]models.Message, error)
	DeleteSession(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// IStatsService aggregates stored nutrition records
type IStatsService interface {
	DailyTotals(ctx context.Context, sessionID string, day time.Time) (*types.DailyTotals, error)
	WeeklySummary(ctx context.Context, sessionID string, end time.Time) (*types.WeeklySummary, error)
	SessionSummary(ctx context.Context, sessionID string) (*types.SessionSummary, error)
	Location() *time.Location
}

// IMealService is the analysis pipeline shared by every transport
type IMealService interface {
	Analyze(ctx context.Context, req types.AnalyzeMealRequest) (*types.AnalyzeMealResponse, error)
	Provider() string
}

// IExportService uploads session transcripts
type IExportService interface {
	Export(ctx context.Context, sessionID string) (*types.ExportResponse, error)
	Enabled() bool
}

// AnalysisCache stores model-produced results keyed by prompt
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*types.NutritionResult, bool, error)
	Set(ctx context.Context, key string, result *types.NutritionResult) error
}
