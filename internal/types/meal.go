package types

import "time"

// AnalyzeMealRequest is the body of POST /api/analyze-meal
type AnalyzeMealRequest struct {
	Message   string `json:"message" validate:"required,max=5000"`
	Language  string `json:"language,omitempty" validate:"omitempty,oneof=zh en auto"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

// AnalyzeMealResponse is returned by every transport for a meal analysis
type AnalyzeMealResponse struct {
	MessageID  string    `json:"message_id"`
	Nutrition  Nutrition `json:"nutrition"`
	AIResponse string    `json:"ai_response"`
	SessionID  string    `json:"session_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessage is a stored message as shown in chat history
type ChatMessage struct {
	ID            string     `json:"id"`
	Content       string     `json:"content"`
	Role          string     `json:"role"`
	Timestamp     time.Time  `json:"timestamp"`
	NutritionData *Nutrition `json:"nutrition_data"`
}

// ChatHistoryResponse is returned by GET /api/chat-history
type ChatHistoryResponse struct {
	Messages  []ChatMessage `json:"messages"`
	Total     int64         `json:"total"`
	SessionID string        `json:"session_id"`
	HasMore   bool          `json:"has_more"`
}

// ExportResponse is returned by POST /api/session-export/:session_id
type ExportResponse struct {
	SessionID string    `json:"session_id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
