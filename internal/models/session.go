package models

import (
	"time"
)

// Session groups the messages of one conversation. The id is an opaque token chosen by the
// client or generated on first use.
type Session struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastActivity time.Time `gorm:"not null;index:ix_user_sessions_last_activity" json:"last_activity"`
	Metadata     JSONMap   `gorm:"type:text" json:"metadata,omitempty"`
	Messages     []Message `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for the Session model
func (Session) TableName() string {
	return "user_sessions"
}
