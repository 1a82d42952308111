package recipe

// PrepTime 準備時間等級
type PrepTime string

const (
	PrepQuick   PrepTime = "quick"
	PrepMedium  PrepTime = "medium"
	PrepLengthy PrepTime = "lengthy"
)

// Valid 是否為已知等級
func (p PrepTime) Valid() bool {
	switch p {
	case PrepQuick, PrepMedium, PrepLengthy:
		return true
	}
	return false
}

// Complexity 複雜度等級
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Valid 是否為已知等級
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return true
	}
	return false
}

// Intent 由心情推導出的食譜類型，每次推薦都重新計算
type Intent struct {
	Type            string     `json:"type"`
	Reason          string     `json:"reason"`
	PreparationTime PrepTime   `json:"preparationTime"`
	Complexity      Complexity `json:"complexity"`
	Comfort         int        `json:"comfort"`
}

// Ingredient 食材
type Ingredient struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Image  string  `json:"image,omitempty"`
}

// Instruction 步驟，Number 從 1 開始
type Instruction struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// Recipe 完整食譜
type Recipe struct {
	ID             int           `json:"id"`
	Title          string        `json:"title"`
	Image          string        `json:"image"`
	ReadyInMinutes int           `json:"readyInMinutes"`
	Servings       int           `json:"servings"`
	HealthScore    float64       `json:"healthScore"`
	MoodMatch      string        `json:"moodMatch"`
	Ingredients    []Ingredient  `json:"ingredients"`
	Instructions   []Instruction `json:"instructions"`
	Saved          bool          `json:"saved,omitempty"`
}

// Clone 深拷貝
func (r Recipe) Clone() Recipe {
	r.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	r.Instructions = append([]Instruction(nil), r.Instructions...)
	return r
}

// Summary 搜尋結果的摘要
type Summary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}
