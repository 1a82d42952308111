package analysis

import (
	"strings"

	"moodchef/internal/core/mood"
)

type moodWords struct {
	emotion string
	words   []string
}

// 順序固定，次數相同時先出現的家族勝出
var moodFamilies = []moodWords{
	{"happy", []string{"happy", "joy", "excited", "good", "great", "wonderful", "fantastic"}},
	{"sad", []string{"sad", "upset", "depressed", "down", "blue", "unhappy", "miserable"}},
	{"angry", []string{"angry", "mad", "frustrated", "annoyed", "irritated", "furious"}},
	{"neutral", []string{"okay", "fine", "alright", "neutral", "normal"}},
	{"anxious", []string{"anxious", "nervous", "worried", "stressed", "concerned"}},
	{"tired", []string{"tired", "exhausted", "sleepy", "fatigued", "drained"}},
}

// KeywordEmotion 以關鍵字家族判斷情緒；沒有任何命中時回傳 false
func KeywordEmotion(text string) (string, bool) {
	lower := strings.ToLower(text)
	best, highest := "", 0
	for _, family := range moodFamilies {
		count := 0
		for _, w := range family.words {
			if strings.Contains(lower, w) {
				count++
			}
		}
		if count > highest {
			best, highest = family.emotion, count
		}
	}
	return best, highest > 0
}

// HeuristicEmotion 關鍵字優先，其次依精力值（>=7 開心、<=3 疲倦），否則中性
func HeuristicEmotion(text string, energyLevel int) string {
	if emotion, ok := KeywordEmotion(text); ok {
		return emotion
	}
	switch {
	case energyLevel >= 7:
		return "happy"
	case energyLevel > 0 && energyLevel <= 3:
		return "tired"
	default:
		return mood.Neutral
	}
}
