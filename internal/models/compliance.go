package models

import "time"

// Answer — один ответ анкеты: идентификатор вопроса и текст выбранного варианта.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// Compliance представляет одну заполненную NIS2-анкету.
// Запись неизменяема после создания; "последняя" оценка пользователя
// определяется по максимальному CreatedAt.
type Compliance struct {
	ID              int       `json:"id"`
	UserUID         string    `json:"user_uid"`
	Answers         []Answer  `json:"answers"`
	Score           int       `json:"score"` // Округлённое среднее по присланным ответам
	Recommendations *string   `json:"recommendations,omitempty"` // Только для Premium/Pro
	CreatedAt       time.Time `json:"created_at"`
}

// ComplianceFeedback — производные списки рекомендаций, вычисляемые из ответов
// при каждом чтении. Никогда не сохраняются в хранилище.
type ComplianceFeedback struct {
	Strengths         []string `json:"strengths"`
	ImprovementAreas  []string `json:"improvement_areas"`
	ShortTermActions  []string `json:"short_term_actions"`
	MediumTermActions []string `json:"medium_term_actions"`
	LongTermActions   []string `json:"long_term_actions"`
}
