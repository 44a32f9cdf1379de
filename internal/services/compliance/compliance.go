// Package compliance реализует анкету соответствия NIS2: подсчёт балла,
// производные рекомендации по ответам и сводный статус.
package compliance

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/glebmarkov/nis2-dashboard/internal/advisor"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// Repository определяет методы для работы с оценками соответствия в хранилище.
type Repository interface {
	// CreateCompliance сохраняет результат анкеты.
	CreateCompliance(ctx context.Context, entry models.Compliance) (*models.Compliance, error)
	// GetLatestCompliance возвращает последнюю оценку пользователя.
	GetLatestCompliance(ctx context.Context, userUID string) (*models.Compliance, error)
}

// Stats — сводный статус соответствия по последней оценке.
type Stats struct {
	Score  int    `json:"score"`
	Status string `json:"status"`
}

// Result — сохранённая оценка вместе с производными списками рекомендаций.
type Result struct {
	models.Compliance
	models.ComplianceFeedback
}

// Service реализует бизнес-логику оценки соответствия.
type Service struct {
	repo    Repository
	advisor advisor.Advisor
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, adv advisor.Advisor, log *slog.Logger) *Service {
	return &Service{repo: repo, advisor: adv, log: log}
}

// Score усредняет вклады всех присланных ответов и округляет до ближайшего
// целого. Нераспознанный вариант ответа даёт 0 баллов. Делитель — число
// присланных ответов, а не число вопросов анкеты: неполная анкета
// оценивается только по присланной части.
func Score(answers []models.Answer) int {
	if len(answers) == 0 {
		return 0
	}
	total := 0
	for _, a := range answers {
		total += answerScores[a.Answer]
	}
	return int(math.Round(float64(total) / float64(len(answers))))
}

// Feedback пересчитывает производные списки рекомендаций из ответов.
// Списки не хранятся в базе и всегда выводятся заново.
func Feedback(answers []models.Answer) models.ComplianceFeedback {
	fb := models.ComplianceFeedback{
		Strengths:         []string{},
		ImprovementAreas:  []string{},
		ShortTermActions:  []string{},
		MediumTermActions: []string{},
	}
	weakAreas := make(map[int]bool)
	for _, a := range answers {
		switch a.Answer {
		case AnswerFullyImplemented:
			fb.Strengths = append(fb.Strengths, strengthText(a.QuestionID))
		case AnswerNo:
			fb.ImprovementAreas = append(fb.ImprovementAreas, improvementText(a.QuestionID))
			fb.ShortTermActions = append(fb.ShortTermActions, shortTermText(a.QuestionID))
		case AnswerInPlanning:
			fb.ImprovementAreas = append(fb.ImprovementAreas, improvementText(a.QuestionID))
			fb.MediumTermActions = append(fb.MediumTermActions, mediumTermText(a.QuestionID))
		case AnswerPartiallyImplemented:
			fb.MediumTermActions = append(fb.MediumTermActions, mediumTermText(a.QuestionID))
		}
		if a.Answer != AnswerFullyImplemented {
			weakAreas[a.QuestionID] = true
		}
	}

	actions := append([]string{}, baseLongTermActions...)
	for id := 1; id <= 3; id++ {
		if weakAreas[id] {
			if extra, ok := extraLongTermActions[id]; ok {
				actions = append(actions, extra)
			}
		}
	}
	if len(actions) > 3 {
		actions = actions[:3]
	}
	fb.LongTermActions = actions
	return fb
}

// Submit считает балл, для Premium/Pro запрашивает AI-рекомендации,
// сохраняет оценку и возвращает её вместе с производными списками.
func (s *Service) Submit(ctx context.Context, user *models.User, answers []models.Answer) (*Result, error) {
	entry := models.Compliance{
		UserUID: user.UID,
		Answers: answers,
		Score:   Score(answers),
	}

	if user.Plan.AllowsAI() {
		recommendations, err := s.advisor.ComplianceAdvice(ctx, answers)
		if err != nil {
			return nil, err
		}
		entry.Recommendations = &recommendations
	}

	created, err := s.repo.CreateCompliance(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("created compliance assessment",
		slog.Int("id", created.ID), slog.Int("score", created.Score))

	return &Result{Compliance: *created, ComplianceFeedback: Feedback(created.Answers)}, nil
}

// Latest возвращает последнюю оценку пользователя со свежепересчитанными
// списками рекомендаций.
func (s *Service) Latest(ctx context.Context, userUID string) (*Result, error) {
	latest, err := s.repo.GetLatestCompliance(ctx, userUID)
	if err != nil {
		return nil, err
	}
	return &Result{Compliance: *latest, ComplianceFeedback: Feedback(latest.Answers)}, nil
}

// Stats возвращает сводный статус по последней оценке. Отсутствие оценок —
// не ошибка: статус "Not Started" с нулевым баллом.
func (s *Service) Stats(ctx context.Context, userUID string) (*Stats, error) {
	latest, err := s.repo.GetLatestCompliance(ctx, userUID)
	if errors.Is(err, storage.ErrNotFound) {
		return &Stats{Score: 0, Status: "Not Started"}, nil
	}
	if err != nil {
		return nil, err
	}

	status := "Non-Compliant"
	switch {
	case latest.Score >= 80:
		status = "Compliant"
	case latest.Score >= 40:
		status = "Partially Compliant"
	}
	return &Stats{Score: latest.Score, Status: status}, nil
}
