package service

import (
	"fmt"
	"strings"

	"github.com/pageza/calai/backend/internal/types"
)

const persona = `你是 Cal AI，一位专业、友好、关怀的AI营养师助手。

核心能力：
1. 精确分析食物营养成分（卡路里、蛋白质、碳水化合物、脂肪、纤维、糖分、钠）
2. 提供个性化营养建议
3. 支持中英文双语对话
4. 记录和追踪用户饮食习惯
5. 回答营养健康相关问题

性格特点：
- 专业但不严肃，像朋友一样关心用户健康
- 鼓励为主，避免批评
- 提供实用可行的建议
- 用简单易懂的语言解释复杂概念`

const mealAnalysisTemplate = `%s

用户输入：%s
%s
任务要求：
1. 分析用户输入的类型：
   a) 具体食物描述 → 进行营养分析
   b) 健康咨询问题 → 提供专业建议
   c) 饮食记录查询 → 回顾和总结
   d) 日常对话 → 友好回应并引导到健康话题

2. 回复要求：
   - %s
   - 保持友好、鼓励的语气
   - 提供具体、可执行的建议
   - 适当使用表情符号增加亲和力（1-2个即可）

3. 输出格式（JSON）：
{
    "food_items": [
        {
            "name": "食物名称（英文）",
            "name_cn": "食物名称（中文）",
            "amount": "数量",
            "unit": "单位（g/ml/个/碗/杯等）",
            "calories": 卡路里数值,
            "protein": 蛋白质克数,
            "carbs": 碳水化合物克数,
            "fat": 脂肪克数,
            "fiber": 纤维克数,
            "sugar": 糖分克数,
            "sodium": 钠毫克数
        }
    ],
    "analysis_notes": "营养分析要点（如有）",
    "ai_response": "给用户的自然语言回复"
}

注意事项：
- 如果是食物，尽可能准确计算营养成分
- 如果份量不明确，使用常见默认份量并说明
- 如果不是食物相关输入，food_items可为空数组
- 始终提供有价值的回复，不要说"我不知道"
- 对不健康食物，委婉建议改善，不要批评`

var languageDirectives = map[types.Language]string{
	types.LanguageChinese: "请用中文回复",
	types.LanguageEnglish: "Please respond in English",
	types.LanguageAuto:    "请用与用户输入相同的语言回复",
}

// PromptContext carries optional per-user facts rendered into the prompt
type PromptContext struct {
	UserGoals           string
	DietaryRestrictions string
	DailyIntake         float64
}

func (c *PromptContext) render() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	if c.UserGoals != "" {
		fmt.Fprintf(&b, "用户目标：%s\n", c.UserGoals)
	}
	if c.DietaryRestrictions != "" {
		fmt.Fprintf(&b, "饮食限制：%s\n", c.DietaryRestrictions)
	}
	if c.DailyIntake > 0 {
		fmt.Fprintf(&b, "今日已摄入：%g卡路里\n", c.DailyIntake)
	}
	return b.String()
}

// LanguageDirective returns the reply-language instruction for lang. Unknown values fall
// back to answering in the user's own language.
func LanguageDirective(lang types.Language) string {
	if directive, ok := languageDirectives[lang]; ok {
		return directive
	}
	return languageDirectives[types.LanguageAuto]
}

// BuildMealAnalysisPrompt renders the meal analysis instruction. The output depends only on
// its arguments.
func BuildMealAnalysisPrompt(message string, lang types.Language, promptCtx *PromptContext) string {
	return fmt.Sprintf(mealAnalysisTemplate, persona, message, promptCtx.render(), LanguageDirective(lang))
}
