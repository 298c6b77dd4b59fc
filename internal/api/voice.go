package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/types"
)

const maxAudioSizeMB = 10

var supportedAudioFormats = []string{"mp3", "wav", "m4a", "webm"}

// sampleTranscripts stand in for a transcription provider
var sampleTranscripts = []types.VoiceToTextResponse{
	{Text: "I had a chicken salad with ranch dressing and a diet coke", Language: "en"},
	{Text: "我早餐吃了两个鸡蛋和一片全麦面包", Language: "zh"},
	{Text: "For lunch I had a turkey sandwich with lettuce and tomato", Language: "en"},
	{Text: "晚饭吃了一碗牛肉面加一个煎蛋", Language: "zh"},
	{Text: "Had grilled salmon with steamed vegetables and brown rice", Language: "en"},
	{Text: "早上喝了一杯豆浆配两个包子", Language: "zh"},
}

// VoiceHandler validates audio uploads and returns a canned transcription
type VoiceHandler struct {
	logger *zap.Logger
}

func NewVoiceHandler(logger *zap.Logger) *VoiceHandler {
	return &VoiceHandler{logger: logger}
}

func (h *VoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/voice-to-text", h.VoiceToText)
	router.GET("/voice/supported-formats", h.SupportedFormats)
}

func invalidAudio(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":             "invalid_input",
		"message":           message,
		"supported_formats": supportedAudioFormats,
	})
}

func (h *VoiceHandler) VoiceToText(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		invalidAudio(c, "No audio file provided")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	supported := false
	for _, f := range supportedAudioFormats {
		if f == ext {
			supported = true
			break
		}
	}
	if !supported {
		invalidAudio(c, fmt.Sprintf("Unsupported audio format: %s. Supported formats: %s",
			ext, strings.Join(supportedAudioFormats, ", ")))
		return
	}
	if file.Size > maxAudioSizeMB*1024*1024 {
		invalidAudio(c, fmt.Sprintf("Audio file too large. Maximum size: %dMB", maxAudioSizeMB))
		return
	}

	resp := sampleTranscripts[int(file.Size)%len(sampleTranscripts)]
	resp.Confidence = 0.95
	h.logger.Info("audio transcribed with sample transcript",
		zap.String("filename", file.Filename), zap.Int64("size", file.Size))

	c.JSON(http.StatusOK, resp)
}

func (h *VoiceHandler) SupportedFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"supported_formats":  supportedAudioFormats,
		"max_file_size_mb":   maxAudioSizeMB,
		"recommended_format": "mp3",
		"sample_rate_hz":     16000,
	})
}
