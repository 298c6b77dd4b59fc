package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/calai/backend/internal/models"
	"github.com/pageza/calai/backend/internal/testhelpers"
	"github.com/pageza/calai/backend/internal/types"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(db *gorm.DB) (*SessionStore, *testClock) {
	clock := &testClock{now: time.Date(2024, 3, 10, 4, 0, 0, 0, time.UTC)}
	store := NewSessionStore(db).(*SessionStore)
	store.now = clock.Now
	return store, clock
}

func beefNoodleResult() *types.NutritionResult {
	return types.NewNutritionResult([]types.FoodItem{{
		Name: "Beef noodle soup", NameCN: "牛肉面", Amount: "1", Unit: "碗",
		Calories: 500, Protein: 20, Carbs: 60, Fat: 15, Fiber: 2, Sugar: 3, Sodium: 900,
	}}, "high sodium", "一碗牛肉面大约500卡路里", types.SourceModel)
}

func TestSessionStore(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		runSessionStoreTests(t, func(t *testing.T) *gorm.DB { return testhelpers.SetupSQLiteDB(t) })
	})
	t.Run("postgres", func(t *testing.T) {
		db := testhelpers.SetupPostgresDB(t)
		runSessionStoreTests(t, func(t *testing.T) *gorm.DB {
			require.NoError(t, db.Exec("TRUNCATE messages, food_items, nutrition_info, user_sessions CASCADE").Error)
			return db
		})
	})
}

func runSessionStoreTests(t *testing.T, setup func(t *testing.T) *gorm.DB) {
	ctx := context.Background()

	t.Run("get or create is idempotent", func(t *testing.T) {
		store, clock := newTestStore(setup(t))

		created, err := store.GetOrCreateSession(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		clock.Advance(time.Minute)
		again, err := store.GetOrCreateSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)
		assert.True(t, again.LastActivity.After(created.LastActivity))

		clock.Advance(-time.Hour)
		stale, err := store.GetOrCreateSession(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, stale.LastActivity.Equal(again.LastActivity), "last_activity must not move backward")
	})

	t.Run("unknown id is created as given", func(t *testing.T) {
		store, _ := newTestStore(setup(t))

		session, err := store.GetOrCreateSession(ctx, "client-chosen-id")
		require.NoError(t, err)
		assert.Equal(t, "client-chosen-id", session.ID)

		_, err = store.GetSession(ctx, "client-chosen-id")
		assert.NoError(t, err)
		_, err = store.GetSession(ctx, "missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("rejects invalid messages", func(t *testing.T) {
		store, _ := newTestStore(setup(t))
		session, err := store.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		_, err = store.AppendMessage(ctx, session.ID, "narrator", "hi", nil)
		assert.ErrorIs(t, err, ErrValidation)

		_, err = store.AppendMessage(ctx, session.ID, models.RoleUser, "hi", beefNoodleResult())
		assert.ErrorIs(t, err, ErrValidation)

		count, err := store.CountMessages(ctx, session.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("stores nutrition with recomputed totals", func(t *testing.T) {
		store, _ := newTestStore(setup(t))
		session, err := store.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		result := beefNoodleResult()
		result.TotalCalories = 9999

		msg, err := store.AppendMessage(ctx, session.ID, models.RoleAssistant, result.AIResponse, result)
		require.NoError(t, err)
		require.NotNil(t, msg.NutritionDataID)
		assert.Equal(t, "model", msg.Metadata["source"])

		messages, total, err := store.ListMessages(ctx, session.ID, 10, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, messages, 1)
		require.NotNil(t, messages[0].NutritionData)
		assert.InDelta(t, 500, messages[0].NutritionData.TotalCalories, 1e-9)
		require.Len(t, messages[0].NutritionData.FoodItems, 1)
		assert.Equal(t, "牛肉面", messages[0].NutritionData.FoodItems[0].NameCN)
	})

	t.Run("lists newest page in chronological order", func(t *testing.T) {
		store, clock := newTestStore(setup(t))
		session, err := store.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		contents := []string{"m1", "m2", "m3", "m4", "m5"}
		for _, c := range contents {
			clock.Advance(time.Second)
			_, err := store.AppendMessage(ctx, session.ID, models.RoleUser, c, nil)
			require.NoError(t, err)
		}

		page, total, err := store.ListMessages(ctx, session.ID, 2, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, page, 2)
		assert.Equal(t, "m4", page[0].Content)
		assert.Equal(t, "m5", page[1].Content)

		page, _, err = store.ListMessages(ctx, session.ID, 2, 4)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "m1", page[0].Content)

		page, _, err = store.ListMessages(ctx, session.ID, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("most recent session", func(t *testing.T) {
		store, clock := newTestStore(setup(t))

		_, err := store.MostRecentSession(ctx)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		_, err = store.GetOrCreateSession(ctx, "older")
		require.NoError(t, err)
		clock.Advance(time.Minute)
		_, err = store.GetOrCreateSession(ctx, "newer")
		require.NoError(t, err)

		recent, err := store.MostRecentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "newer", recent.ID)
	})

	t.Run("nutrition messages by range", func(t *testing.T) {
		store, clock := newTestStore(setup(t))
		session, err := store.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		start := clock.Now()
		_, err = store.AppendMessage(ctx, session.ID, models.RoleAssistant, "a", beefNoodleResult())
		require.NoError(t, err)
		_, err = store.AppendMessage(ctx, session.ID, models.RoleUser, "no nutrition", nil)
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
		_, err = store.AppendMessage(ctx, session.ID, models.RoleAssistant, "b", beefNoodleResult())
		require.NoError(t, err)

		all, err := store.NutritionMessages(ctx, session.ID, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "a", all[0].Content)

		first, err := store.NutritionMessages(ctx, session.ID, start, start.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, first, 1)
		assert.Equal(t, "a", first[0].Content)
	})

	t.Run("delete removes everything", func(t *testing.T) {
		db := setup(t)
		store, _ := newTestStore(db)
		session, err := store.GetOrCreateSession(ctx, "")
		require.NoError(t, err)

		_, err = store.AppendMessage(ctx, session.ID, models.RoleUser, "一碗牛肉面", nil)
		require.NoError(t, err)
		_, err = store.AppendMessage(ctx, session.ID, models.RoleAssistant, "ok", beefNoodleResult())
		require.NoError(t, err)

		require.NoError(t, store.DeleteSession(ctx, session.ID))

		messages, total, err := store.ListMessages(ctx, session.ID, 50, 0)
		require.NoError(t, err)
		assert.Empty(t, messages)
		assert.Zero(t, total)

		_, err = store.GetSession(ctx, session.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)

		var infos, items int64
		require.NoError(t, db.Model(&models.NutritionInfo{}).Count(&infos).Error)
		require.NoError(t, db.Model(&models.FoodItem{}).Count(&items).Error)
		assert.Zero(t, infos)
		assert.Zero(t, items)

		assert.NoError(t, store.DeleteSession(ctx, "never-existed"))
	})

	t.Run("ping", func(t *testing.T) {
		store, _ := newTestStore(setup(t))
		assert.NoError(t, store.Ping(ctx))
	})
}
