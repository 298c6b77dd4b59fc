package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ValidRole reports whether role is one of the known message roles
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

type Message struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID       string         `gorm:"size:64;not null;index:ix_messages_session_created,priority:1" json:"session_id"`
	Role            string         `gorm:"size:16;not null" json:"role"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	NutritionDataID *uuid.UUID     `gorm:"type:uuid" json:"nutrition_data_id,omitempty"`
	NutritionData   *NutritionInfo `gorm:"foreignKey:NutritionDataID" json:"nutrition_data,omitempty"`
	Metadata        JSONMap        `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt       time.Time      `gorm:"index:ix_messages_session_created,priority:2" json:"timestamp"`
}

// TableName returns the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate assigns a UUID when the caller did not
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
