package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/middleware"
	"github.com/pageza/calai/backend/internal/service"
	"github.com/pageza/calai/backend/internal/testhelpers"
	"github.com/pageza/calai/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockExportService is a mock implementation of service.IExportService
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, sessionID string) (*types.ExportResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExportResponse), args.Error(1)
}

func (m *MockExportService) Enabled() bool {
	return m.Called().Bool(0)
}

type testEnv struct {
	router    *gin.Engine
	store     service.ISessionStore
	generator *testhelpers.FakeGenerator
	exports   *MockExportService
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.Test,
		AppName:     "Cal AI Backend",
		AppVersion:  "1.0.0",
		AIProvider:  config.ProviderAnthropic,
		DBDriver:    config.DriverSQLite,
		CORSOrigins: []string{"*"},
	}
}

// setupTestRouter builds the full gin API over an in-memory database and a fake provider
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	log := zap.NewNop()
	store := service.NewSessionStore(testhelpers.SetupSQLiteDB(t))
	gen := &testhelpers.FakeGenerator{Provider: "anthropic", Reply: testhelpers.MealReply}
	exports := &MockExportService{}

	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.CORS([]string{"*"}))
	RegisterRoutes(router, Dependencies{
		Config:  testConfig(),
		Logger:  log,
		Store:   store,
		Meals:   service.NewMealService(store, gen, nil, log),
		Stats:   service.NewStatsService(store, loc),
		Exports: exports,
	})

	return &testEnv{router: router, store: store, generator: gen, exports: exports}
}

// PerformRequest sends a JSON request through the router
func PerformRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}
