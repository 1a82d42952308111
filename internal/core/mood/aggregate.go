package mood

import "fmt"

// Summary 合併後的心情
type Summary struct {
	PrimaryEmotion string   `json:"primaryEmotion"`
	Clauses        []string `json:"clauses"`
}

// Aggregate 合併任意來源子集合。臉部情緒優先；聲音不同時只補充說明，
// 不覆蓋臉部結果。空狀態回傳 neutral，沒有錯誤路徑。
func Aggregate(s State) Summary {
	sum := Summary{PrimaryEmotion: Neutral, Clauses: []string{}}

	if s.Facial != nil {
		sum.PrimaryEmotion = s.Facial.PrimaryEmotion
		sum.Clauses = append(sum.Clauses, fmt.Sprintf("Your facial expression showed %s", s.Facial.PrimaryEmotion))
	}

	if s.Voice != nil && s.Voice.PrimaryEmotion != sum.PrimaryEmotion {
		sum.Clauses = append(sum.Clauses, fmt.Sprintf("Your voice conveyed %s", s.Voice.PrimaryEmotion))
	}

	if s.Text != nil {
		sum.Clauses = append(sum.Clauses, fmt.Sprintf(
			"You expressed %s energy (%d/10) and a desire for comfort of %d/10",
			s.Text.PrimaryEmotion, s.Text.EnergyLevel, s.Text.ComfortDesire,
		))
	}

	if sum.PrimaryEmotion == "" {
		sum.PrimaryEmotion = Neutral
	}
	return sum
}
