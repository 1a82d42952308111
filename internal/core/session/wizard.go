package session

import "errors"

// Step 精靈步驟
type Step string

const (
	StepFacial Step = "facial"
	StepVoice  Step = "voice"
	StepText   Step = "text"
	StepRecipe Step = "recipe"
)

var stepOrder = []Step{StepFacial, StepVoice, StepText, StepRecipe}

// ErrTerminalStep 已在最後一步，只能重新開始
var ErrTerminalStep = errors.New("already at the recipe step")

// ParseStep 解析步驟名稱
func ParseStep(s string) (Step, bool) {
	for _, step := range stepOrder {
		if string(step) == s {
			return step, true
		}
	}
	return "", false
}

// Wizard 只能前進的步驟狀態機
type Wizard struct {
	current   Step
	completed []Step
}

// NewWizard 從臉部步驟開始
func NewWizard() Wizard {
	return Wizard{current: StepFacial}
}

// Current 目前步驟
func (w *Wizard) Current() Step {
	return w.current
}

// Completed 已完成的步驟，依完成順序
func (w *Wizard) Completed() []Step {
	return append([]Step{}, w.completed...)
}

// IsCompleted 步驟是否已完成
func (w *Wizard) IsCompleted(step Step) bool {
	for _, s := range w.completed {
		if s == step {
			return true
		}
	}
	return false
}

// Continue 標記目前步驟完成並前進
func (w *Wizard) Continue() (Step, error) {
	if w.current == StepRecipe {
		return w.current, ErrTerminalStep
	}
	if !w.IsCompleted(w.current) {
		w.completed = append(w.completed, w.current)
	}
	return w.advance(), nil
}

// Skip 不標記完成直接前進
func (w *Wizard) Skip() (Step, error) {
	if w.current == StepRecipe {
		return w.current, ErrTerminalStep
	}
	return w.advance(), nil
}

// Reset 回到臉部步驟並清除完成紀錄
func (w *Wizard) Reset() {
	w.current = StepFacial
	w.completed = nil
}

func (w *Wizard) advance() Step {
	for i, s := range stepOrder {
		if s == w.current {
			w.current = stepOrder[i+1]
			break
		}
	}
	return w.current
}
