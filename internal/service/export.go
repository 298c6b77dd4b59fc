package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pageza/calai/backend/internal/types"
)

const (
	exportContentType = "application/json"
	exportURLExpiry   = 15 * time.Minute
	exportPageSize    = 500
)

// ObjectStorage is the slice of the S3 client the exporter needs
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// transcript is the document written for an exported session
type transcript struct {
	SessionID  string              `json:"session_id"`
	ExportedAt time.Time           `json:"exported_at"`
	Messages   []types.ChatMessage `json:"messages"`
}

type ExportService struct {
	store   ISessionStore
	storage ObjectStorage
	now     func() time.Time
}

// NewExportService creates an exporter. A nil storage disables export.
func NewExportService(store ISessionStore, storage ObjectStorage) IExportService {
	return &ExportService{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

func (s *ExportService) Enabled() bool {
	return s.storage != nil
}

// ExportKey is the object key a session transcript is written to
func ExportKey(sessionID string) string {
	return fmt.Sprintf("sessions/%s.json", sessionID)
}

// Export writes the full transcript of a session and returns a presigned download URL
func (s *ExportService) Export(ctx context.Context, sessionID string) (*types.ExportResponse, error) {
	if !s.Enabled() {
		return nil, ErrExportDisabled
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}

	doc := transcript{SessionID: sessionID, ExportedAt: s.now().UTC(), Messages: []types.ChatMessage{}}
	for offset := 0; ; offset += exportPageSize {
		// Pages come back oldest-first within the page, newest page first
		page, total, err := s.store.ListMessages(ctx, sessionID, exportPageSize, offset)
		if err != nil {
			return nil, err
		}
		doc.Messages = append(ToChatMessages(page), doc.Messages...)
		if int64(offset+exportPageSize) >= total {
			break
		}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}

	key := ExportKey(sessionID)
	if err := s.storage.PutObject(ctx, key, body, exportContentType); err != nil {
		return nil, fmt.Errorf("%w: failed to upload transcript: %v", ErrStorage, err)
	}

	url, err := s.storage.GeneratePresignedURL(ctx, key, exportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to presign transcript URL: %v", ErrStorage, err)
	}

	return &types.ExportResponse{
		SessionID: sessionID,
		Key:       key,
		URL:       url,
		ExpiresAt: doc.ExportedAt.Add(exportURLExpiry),
	}, nil
}
