package types

import "time"

// HealthResponse is returned by the liveness and readiness probes
type HealthResponse struct {
	Status    string                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// VoiceToTextResponse is returned by the voice transcription stub
type VoiceToTextResponse struct {
	Text            string  `json:"text"`
	Confidence      float64 `json:"confidence"`
	Language        string  `json:"language"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}
