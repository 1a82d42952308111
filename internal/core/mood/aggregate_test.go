package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func reading(primary string) *Reading {
	r := NewReading([]Emotion{{Label: primary, Confidence: 90}, {Label: Neutral, Confidence: 10}})
	return &r
}

func TestAggregateEmptyState(t *testing.T) {
	sum := Aggregate(State{})
	assert.Equal(t, Neutral, sum.PrimaryEmotion)
	assert.Empty(t, sum.Clauses)
	assert.NotNil(t, sum.Clauses)
}

func TestAggregateAllSubsets(t *testing.T) {
	facial := reading("sad")
	voice := reading("happy")
	text := &TextReading{PrimaryEmotion: "tired", EnergyLevel: 2, ComfortDesire: 8}

	for mask := 0; mask < 8; mask++ {
		var s State
		if mask&1 != 0 {
			s.Facial = facial
		}
		if mask&2 != 0 {
			s.Voice = voice
		}
		if mask&4 != 0 {
			s.Text = text
		}

		sum := Aggregate(s)
		assert.NotEmpty(t, sum.PrimaryEmotion, "mask %d", mask)
		if s.Facial != nil {
			assert.Equal(t, "sad", sum.PrimaryEmotion, "facial wins, mask %d", mask)
		} else {
			assert.Equal(t, Neutral, sum.PrimaryEmotion, "mask %d", mask)
		}
	}
}

func TestAggregateVoiceDisagreementAddsClauseOnly(t *testing.T) {
	sum := Aggregate(State{Facial: reading("sad"), Voice: reading("happy")})

	assert.Equal(t, "sad", sum.PrimaryEmotion)
	assert.Equal(t, []string{
		"Your facial expression showed sad",
		"Your voice conveyed happy",
	}, sum.Clauses)
}

func TestAggregateVoiceAgreementAddsNothing(t *testing.T) {
	sum := Aggregate(State{Facial: reading("sad"), Voice: reading("sad")})
	assert.Len(t, sum.Clauses, 1)
}

func TestAggregateTextAlwaysAddsClause(t *testing.T) {
	sum := Aggregate(State{
		Facial: reading("happy"),
		Text:   &TextReading{PrimaryEmotion: "happy", EnergyLevel: 8, ComfortDesire: 3},
	})

	assert.Equal(t, "happy", sum.PrimaryEmotion)
	assert.Len(t, sum.Clauses, 2)
	assert.Contains(t, sum.Clauses[1], "happy energy (8/10)")
	assert.Contains(t, sum.Clauses[1], "3/10")
}

func TestAggregateVoiceOnlyKeepsNeutral(t *testing.T) {
	sum := Aggregate(State{Voice: reading("happy")})
	assert.Equal(t, Neutral, sum.PrimaryEmotion)
	assert.Equal(t, []string{"Your voice conveyed happy"}, sum.Clauses)
}

func TestNewReadingSortsDescending(t *testing.T) {
	r := NewReading([]Emotion{
		{Label: "neutral", Confidence: 20},
		{Label: "sad", Confidence: 80},
		{Label: "happy", Confidence: 5},
	})

	assert.Equal(t, "sad", r.PrimaryEmotion)
	assert.Equal(t, []float64{80, 20, 5}, []float64{r.Emotions[0].Confidence, r.Emotions[1].Confidence, r.Emotions[2].Confidence})
	assert.Equal(t, Neutral, NewReading(nil).PrimaryEmotion)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "happy", NormalizeLabel("HAPPINESS"))
	assert.Equal(t, "sad", NormalizeLabel("NEGATIVE"))
	assert.Equal(t, "surprised", NormalizeLabel("surprise"))
	assert.Equal(t, "anxious", NormalizeLabel(" Anxious "))
	assert.Equal(t, Neutral, NormalizeLabel(""))
}

func TestStateCloneIsDeep(t *testing.T) {
	s := State{Facial: reading("sad"), Text: &TextReading{PrimaryEmotion: "tired", EnergyLevel: 2, ComfortDesire: 9}}
	c := s.Clone()

	c.Facial.Emotions[0].Label = "changed"
	c.Text.EnergyLevel = 10

	assert.Equal(t, "sad", s.Facial.Emotions[0].Label)
	assert.Equal(t, 2, s.Text.EnergyLevel)
	assert.Equal(t, []Source{SourceFacial, SourceText}, s.Sources())
	assert.True(t, State{}.IsEmpty())
}
