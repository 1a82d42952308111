package recipe

import (
	"strings"

	"moodchef/internal/core/mood"
)

// fallbackTable 語言模型不可用時的情緒對照表
var fallbackTable = map[string]Intent{
	"happy": {
		Type:            "fresh and vibrant",
		Reason:          "Your positive mood calls for something bright and energetic",
		PreparationTime: PrepMedium,
		Complexity:      ComplexityModerate,
		Comfort:         5,
	},
	"sad": {
		Type:            "comfort food",
		Reason:          "A warm, soothing dish can help lift your spirits",
		PreparationTime: PrepMedium,
		Complexity:      ComplexitySimple,
		Comfort:         9,
	},
	"angry": {
		Type:            "spicy and robust",
		Reason:          "Something with bold flavors matches your intense energy",
		PreparationTime: PrepQuick,
		Complexity:      ComplexitySimple,
		Comfort:         4,
	},
	mood.Neutral: {
		Type:            "balanced and nourishing",
		Reason:          "A well-rounded dish complements your balanced state",
		PreparationTime: PrepMedium,
		Complexity:      ComplexityModerate,
		Comfort:         6,
	},
	"surprised": {
		Type:            "unique and unexpected",
		Reason:          "Try something new and exciting that matches your sense of wonder",
		PreparationTime: PrepLengthy,
		Complexity:      ComplexityComplex,
		Comfort:         3,
	},
	"fear": {
		Type:            "simple and familiar",
		Reason:          "Something predictable and easy to enjoy",
		PreparationTime: PrepQuick,
		Complexity:      ComplexitySimple,
		Comfort:         8,
	},
}

// FallbackIntent 依主要情緒查表，未知情緒使用 neutral；
// reason 為各來源說明以 " and " 串接後加上表中的理由
func FallbackIntent(summary mood.Summary) Intent {
	intent, ok := fallbackTable[summary.PrimaryEmotion]
	if !ok {
		intent = fallbackTable[mood.Neutral]
	}

	if len(summary.Clauses) > 0 {
		intent.Reason = strings.Join(summary.Clauses, " and ") + ". " + intent.Reason
	}
	return intent
}
