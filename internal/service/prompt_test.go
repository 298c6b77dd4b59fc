package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/calai/backend/internal/types"
)

func TestBuildMealAnalysisPrompt(t *testing.T) {
	message := "我吃了一碗牛肉面，大概500卡"

	t.Run("deterministic", func(t *testing.T) {
		first := BuildMealAnalysisPrompt(message, types.LanguageChinese, nil)
		second := BuildMealAnalysisPrompt(message, types.LanguageChinese, nil)
		assert.Equal(t, first, second)
	})

	t.Run("embeds message persona and schema", func(t *testing.T) {
		prompt := BuildMealAnalysisPrompt(message, types.LanguageAuto, nil)
		assert.Contains(t, prompt, "你是 Cal AI")
		assert.Contains(t, prompt, "用户输入："+message)
		assert.Contains(t, prompt, `"food_items"`)
		assert.Contains(t, prompt, `"analysis_notes"`)
		assert.Contains(t, prompt, `"ai_response"`)
		assert.NotContains(t, prompt, "%!")
	})

	t.Run("language directive", func(t *testing.T) {
		assert.Contains(t, BuildMealAnalysisPrompt(message, types.LanguageChinese, nil), "请用中文回复")
		assert.Contains(t, BuildMealAnalysisPrompt(message, types.LanguageEnglish, nil), "Please respond in English")
		assert.Contains(t, BuildMealAnalysisPrompt(message, types.LanguageAuto, nil), "请用与用户输入相同的语言回复")
		assert.Equal(t, "请用与用户输入相同的语言回复", LanguageDirective(types.Language("fr")))
	})

	t.Run("message with format verbs is kept verbatim", func(t *testing.T) {
		prompt := BuildMealAnalysisPrompt("100% juice %s %d", types.LanguageEnglish, nil)
		assert.Contains(t, prompt, "100% juice %s %d")
	})

	t.Run("context lines", func(t *testing.T) {
		withCtx := BuildMealAnalysisPrompt(message, types.LanguageChinese, &PromptContext{
			UserGoals:   "减脂",
			DailyIntake: 1200,
		})
		assert.Contains(t, withCtx, "用户目标：减脂")
		assert.Contains(t, withCtx, "今日已摄入：1200卡路里")
		assert.NotContains(t, withCtx, "饮食限制")
		assert.Less(t, strings.Index(withCtx, message), strings.Index(withCtx, "用户目标"))

		empty := BuildMealAnalysisPrompt(message, types.LanguageChinese, &PromptContext{})
		assert.Equal(t, BuildMealAnalysisPrompt(message, types.LanguageChinese, nil), empty)
	})
}
