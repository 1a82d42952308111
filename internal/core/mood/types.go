// Package mood holds emotion readings from the analysis sources and merges
// them into a single inferred mood.
package mood

import (
	"sort"
	"strings"
)

// Source 分析來源
type Source string

const (
	SourceFacial Source = "facial"
	SourceVoice  Source = "voice"
	SourceText   Source = "text"
)

// Neutral 沒有任何來源時的預設情緒
const Neutral = "neutral"

// Emotion 單一情緒標籤與信心分數（0-100，各標籤獨立，不需加總為 100）
type Emotion struct {
	Label      string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Reading 單一分析來源的結果
type Reading struct {
	PrimaryEmotion string    `json:"primaryEmotion"`
	Emotions       []Emotion `json:"emotions"`
	Transcript     string    `json:"transcription,omitempty"`
}

// TextReading 文字輸入的結果
type TextReading struct {
	PrimaryEmotion string `json:"primaryEmotion"`
	EnergyLevel    int    `json:"energyLevel"`
	ComfortDesire  int    `json:"comfortDesire"`
}

// NewReading 依信心分數由高到低排序，最高者為主要情緒
func NewReading(emotions []Emotion) Reading {
	sorted := make([]Emotion, len(emotions))
	copy(sorted, emotions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	r := Reading{PrimaryEmotion: Neutral, Emotions: sorted}
	if len(sorted) > 0 {
		r.PrimaryEmotion = sorted[0].Label
	}
	return r
}

var labelAliases = map[string]string{
	"happiness": "happy",
	"joy":       "happy",
	"positive":  "happy",
	"sadness":   "sad",
	"negative":  "sad",
	"anger":     "angry",
	"surprise":  "surprised",
	"fearful":   "fear",
	"disgusted": "disgust",
}

// NormalizeLabel 將外部服務的標籤統一為小寫的形容詞形式
func NormalizeLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if alias, ok := labelAliases[l]; ok {
		return alias
	}
	if l == "" {
		return Neutral
	}
	return l
}

// State 每個來源最多一筆結果；存在代表該步驟分析成功，缺少代表跳過或尚未執行
type State struct {
	Facial *Reading     `json:"facial,omitempty"`
	Voice  *Reading     `json:"voice,omitempty"`
	Text   *TextReading `json:"text,omitempty"`
}

// IsEmpty 是否沒有任何來源
func (s State) IsEmpty() bool {
	return s.Facial == nil && s.Voice == nil && s.Text == nil
}

// Sources 目前已有結果的來源
func (s State) Sources() []Source {
	var out []Source
	if s.Facial != nil {
		out = append(out, SourceFacial)
	}
	if s.Voice != nil {
		out = append(out, SourceVoice)
	}
	if s.Text != nil {
		out = append(out, SourceText)
	}
	return out
}

// Clone 深拷貝，讓呼叫端可在鎖外使用
func (s State) Clone() State {
	var out State
	if s.Facial != nil {
		r := cloneReading(*s.Facial)
		out.Facial = &r
	}
	if s.Voice != nil {
		r := cloneReading(*s.Voice)
		out.Voice = &r
	}
	if s.Text != nil {
		t := *s.Text
		out.Text = &t
	}
	return out
}

func cloneReading(r Reading) Reading {
	r.Emotions = append([]Emotion(nil), r.Emotions...)
	return r
}
