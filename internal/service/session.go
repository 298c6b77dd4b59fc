package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/calai/backend/internal/models"
	"github.com/pageza/calai/backend/internal/types"
)

type SessionStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionStore(db *gorm.DB) ISessionStore {
	return &SessionStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func storageError(action string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", ErrStorage, action, err)
}

// GetOrCreateSession returns the session with the given id, creating it when unknown. An
// empty id gets a fresh UUID. Every call moves last_activity forward.
func (s *SessionStore) GetOrCreateSession(ctx context.Context, id string) (*models.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.New().String()
	}
	now := s.now()

	session := models.Session{ID: id, LastActivity: now, Metadata: models.JSONMap{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&session).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Session{}).
			Where("id = ? AND last_activity < ?", id, now).
			Update("last_activity", now).Error; err != nil {
			return err
		}
		return tx.First(&session, "id = ?", id).Error
	})
	if err != nil {
		return nil, storageError("get or create session", err)
	}

	return &session, nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, storageError("get session", err)
	}
	return &session, nil
}

// MostRecentSession returns the session with the latest activity
func (s *SessionStore) MostRecentSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := s.db.WithContext(ctx).Order("last_activity DESC").First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, storageError("get most recent session", err)
	}
	return &session, nil
}

// AppendMessage stores a message and, for assistant replies, its nutrition record in one
// transaction.
func (s *SessionStore) AppendMessage(ctx context.Context, sessionID, role, content string, nutrition *types.NutritionResult) (*models.Message, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if nutrition != nil && role != models.RoleAssistant {
		return nil, fmt.Errorf("%w: only assistant messages carry nutrition data", ErrValidation)
	}

	now := s.now()
	message := &models.Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  models.JSONMap{},
		CreatedAt: now,
	}

	var info *models.NutritionInfo
	if nutrition != nil {
		info = toNutritionInfo(nutrition, now)
		message.NutritionDataID = &info.ID
		message.Metadata["source"] = string(nutrition.Source)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if info != nil {
			if err := tx.Create(info).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Session{}).
			Where("id = ? AND last_activity < ?", sessionID, now).
			Update("last_activity", now).Error
	})
	if err != nil {
		return nil, storageError("append message", err)
	}

	message.NutritionData = info
	return message, nil
}

func toNutritionInfo(result *types.NutritionResult, now time.Time) *models.NutritionInfo {
	totals := types.ComputeTotals(result.FoodItems)
	info := &models.NutritionInfo{
		ID:            uuid.New(),
		TotalCalories: totals.TotalCalories,
		TotalProtein:  totals.TotalProtein,
		TotalCarbs:    totals.TotalCarbs,
		TotalFat:      totals.TotalFat,
		TotalFiber:    totals.TotalFiber,
		TotalSugar:    totals.TotalSugar,
		TotalSodium:   totals.TotalSodium,
		AnalysisNotes: result.AnalysisNotes,
		CreatedAt:     now,
	}
	for i, item := range result.FoodItems {
		info.FoodItems = append(info.FoodItems, models.FoodItem{
			ID:              uuid.New(),
			NutritionInfoID: info.ID,
			Position:        i,
			Name:            item.Name,
			NameCN:          item.NameCN,
			Amount:          item.Amount,
			Unit:            item.Unit,
			Calories:        item.Calories,
			Protein:         item.Protein,
			Carbs:           item.Carbs,
			Fat:             item.Fat,
			Fiber:           item.Fiber,
			Sugar:           item.Sugar,
			Sodium:          item.Sodium,
		})
	}
	return info
}

func preloadNutrition(db *gorm.DB) *gorm.DB {
	return db.Preload("NutritionData.FoodItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// ListMessages pages through a session newest-first and returns the page oldest-first
func (s *SessionStore) ListMessages(ctx context.Context, sessionID string, limit, offset int) ([]models.Message, int64, error) {
	total, err := s.CountMessages(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	var messages []models.Message
	if err := preloadNutrition(s.db.WithContext(ctx)).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, 0, storageError("list messages", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}

func (s *SessionStore) CountMessages(ctx context.Context, sessionID string) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Message{}).Where("session_id = ?", sessionID).Count(&total).Error; err != nil {
		return 0, storageError("count messages", err)
	}
	return total, nil
}

// NutritionMessages returns assistant messages carrying nutrition records created in
// [from, to), oldest first. Zero bounds are open.
func (s *SessionStore) NutritionMessages(ctx context.Context, sessionID string, from, to time.Time) ([]models.Message, error) {
	query := s.db.WithContext(ctx).
		Where("session_id = ? AND role = ? AND nutrition_data_id IS NOT NULL", sessionID, models.RoleAssistant)
	if !from.IsZero() {
		query = query.Where("created_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		query = query.Where("created_at < ?", to.UTC())
	}

	var messages []models.Message
	if err := preloadNutrition(query).Order("created_at ASC").Order("id ASC").Find(&messages).Error; err != nil {
		return nil, storageError("load nutrition messages", err)
	}
	return messages, nil
}

// DeleteSession removes a session with its messages and nutrition records. Unknown ids are
// not an error.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var nutritionIDs []uuid.UUID
		if err := tx.Model(&models.Message{}).
			Where("session_id = ? AND nutrition_data_id IS NOT NULL", id).
			Pluck("nutrition_data_id", &nutritionIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("session_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if len(nutritionIDs) > 0 {
			if err := tx.Where("nutrition_info_id IN ?", nutritionIDs).Delete(&models.FoodItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", nutritionIDs).Delete(&models.NutritionInfo{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.Session{}).Error
	})
	if err != nil {
		return storageError("delete session", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageError("get database handle", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storageError("ping database", err)
	}
	return nil
}
