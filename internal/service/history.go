package service

import (
	"github.com/pageza/calai/backend/internal/models"
	"github.com/pageza/calai/backend/internal/types"
)

// ToChatMessages converts stored messages to their chat history shape, keeping order
func ToChatMessages(messages []models.Message) []types.ChatMessage {
	out := make([]types.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, types.ChatMessage{
			ID:            m.ID.String(),
			Content:       m.Content,
			Role:          m.Role,
			Timestamp:     m.CreatedAt,
			NutritionData: NutritionFromModel(m.NutritionData),
		})
	}
	return out
}
