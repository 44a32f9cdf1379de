package compliance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
	"github.com/glebmarkov/nis2-dashboard/internal/storage"
)

// MockRepository реализует интерфейс compliance.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateCompliance(ctx context.Context, entry models.Compliance) (*models.Compliance, error) {
	args := m.Called(ctx, entry)
	if res := args.Get(0); res != nil {
		return res.(*models.Compliance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) GetLatestCompliance(ctx context.Context, userUID string) (*models.Compliance, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Compliance), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAdvisor реализует интерфейс advisor.Advisor
type MockAdvisor struct {
	mock.Mock
}

func (m *MockAdvisor) SecurityAdvice(ctx context.Context, results models.ScanResults) (string, error) {
	args := m.Called(ctx, results)
	return args.String(0), args.Error(1)
}

func (m *MockAdvisor) ComplianceAdvice(ctx context.Context, answers []models.Answer) (string, error) {
	args := m.Called(ctx, answers)
	return args.String(0), args.Error(1)
}

func (m *MockAdvisor) Ask(ctx context.Context, question, questionContext string) (string, error) {
	args := m.Called(ctx, question, questionContext)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func allAnswers(answer string) []models.Answer {
	out := make([]models.Answer, 0, 5)
	for id := 1; id <= 5; id++ {
		out = append(out, models.Answer{QuestionID: id, Answer: answer})
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers []models.Answer
		want    int
	}{
		{name: "все внедрено полностью", answers: allAnswers(AnswerFullyImplemented), want: 100},
		{name: "ничего не внедрено", answers: allAnswers(AnswerNo), want: 0},
		{name: "все частично", answers: allAnswers(AnswerPartiallyImplemented), want: 66},
		{name: "все в планах", answers: allAnswers(AnswerInPlanning), want: 33},
		{
			name: "смешанные ответы округляются",
			answers: []models.Answer{
				{QuestionID: 1, Answer: AnswerFullyImplemented},
				{QuestionID: 2, Answer: AnswerNo},
			},
			want: 50,
		},
		{
			// Делитель — число присланных ответов, а не число вопросов анкеты
			name: "неполная анкета",
			answers: []models.Answer{
				{QuestionID: 1, Answer: AnswerFullyImplemented},
			},
			want: 100,
		},
		{
			name: "нераспознанный ответ дает ноль",
			answers: []models.Answer{
				{QuestionID: 1, Answer: "Maybe"},
				{QuestionID: 2, Answer: AnswerFullyImplemented},
			},
			want: 50,
		},
		{name: "пустой список", answers: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.answers))
		})
	}
}

func TestFeedback(t *testing.T) {
	t.Run("все частично внедрено", func(t *testing.T) {
		fb := Feedback(allAnswers(AnswerPartiallyImplemented))
		assert.Empty(t, fb.Strengths)
		assert.Empty(t, fb.ImprovementAreas)
		assert.Empty(t, fb.ShortTermActions)
		assert.Len(t, fb.MediumTermActions, 5)
		assert.Len(t, fb.LongTermActions, 3)
	})

	t.Run("все внедрено полностью", func(t *testing.T) {
		fb := Feedback(allAnswers(AnswerFullyImplemented))
		assert.Len(t, fb.Strengths, 5)
		assert.Contains(t, fb.Strengths, "Information security policy in place")
		assert.Empty(t, fb.ImprovementAreas)
		assert.Empty(t, fb.ShortTermActions)
		assert.Empty(t, fb.MediumTermActions)
		// Базовые стратегические действия присутствуют всегда
		assert.Len(t, fb.LongTermActions, 3)
	})

	t.Run("ответ No дает зону роста и краткосрочное действие", func(t *testing.T) {
		fb := Feedback([]models.Answer{{QuestionID: 1, Answer: AnswerNo}})
		assert.Equal(t, []string{"Formal information security policy"}, fb.ImprovementAreas)
		assert.Equal(t, []string{"Develop a basic information security policy document"}, fb.ShortTermActions)
		assert.Empty(t, fb.MediumTermActions)
	})

	t.Run("In planning попадает и в зоны роста, и в среднесрочные", func(t *testing.T) {
		fb := Feedback([]models.Answer{{QuestionID: 3, Answer: AnswerInPlanning}})
		assert.Equal(t, []string{"Vulnerability handling processes"}, fb.ImprovementAreas)
		assert.Equal(t, []string{"Establish a structured vulnerability disclosure process"}, fb.MediumTermActions)
		assert.Empty(t, fb.ShortTermActions)
	})

	t.Run("долгосрочные действия ограничены тремя", func(t *testing.T) {
		fb := Feedback(allAnswers(AnswerNo))
		assert.Len(t, fb.LongTermActions, 3)
	})

	t.Run("неизвестный id вопроса получает generic текст", func(t *testing.T) {
		fb := Feedback([]models.Answer{{QuestionID: 9, Answer: AnswerNo}})
		assert.Equal(t, []string{"Improvement needed in area 9"}, fb.ImprovementAreas)
		assert.Equal(t, []string{"Address gap in area 9"}, fb.ShortTermActions)
	})
}

func TestServiceSubmit(t *testing.T) {
	baseUser := &models.User{UID: "uid-1", Plan: models.PlanBase}
	premiumUser := &models.User{UID: "uid-2", Plan: models.PlanPremium}

	t.Run("base план без AI-рекомендаций", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateCompliance", mock.Anything, mock.MatchedBy(func(c models.Compliance) bool {
			return c.UserUID == "uid-1" && c.Score == 100 && c.Recommendations == nil
		})).Return(&models.Compliance{ID: 1, UserUID: "uid-1", Score: 100, Answers: allAnswers(AnswerFullyImplemented)}, nil)

		svc := New(repo, new(MockAdvisor), newNoopLogger())
		result, err := svc.Submit(context.Background(), baseUser, allAnswers(AnswerFullyImplemented))
		require.NoError(t, err)
		assert.Equal(t, 100, result.Score)
		assert.Len(t, result.Strengths, 5)
		repo.AssertExpectations(t)
	})

	t.Run("premium план получает AI-рекомендации", func(t *testing.T) {
		repo := new(MockRepository)
		adv := new(MockAdvisor)
		adv.On("ComplianceAdvice", mock.Anything, mock.Anything).Return("focus on suppliers", nil)
		repo.On("CreateCompliance", mock.Anything, mock.MatchedBy(func(c models.Compliance) bool {
			return c.Recommendations != nil && *c.Recommendations == "focus on suppliers"
		})).Return(&models.Compliance{ID: 2, UserUID: "uid-2", Score: 0, Answers: allAnswers(AnswerNo)}, nil)

		svc := New(repo, adv, newNoopLogger())
		_, err := svc.Submit(context.Background(), premiumUser, allAnswers(AnswerNo))
		require.NoError(t, err)
		repo.AssertExpectations(t)
		adv.AssertExpectations(t)
	})

	t.Run("ошибка советника отменяет сохранение", func(t *testing.T) {
		repo := new(MockRepository)
		adv := new(MockAdvisor)
		adv.On("ComplianceAdvice", mock.Anything, mock.Anything).Return("", errors.New("llm unavailable"))

		svc := New(repo, adv, newNoopLogger())
		_, err := svc.Submit(context.Background(), premiumUser, allAnswers(AnswerNo))
		require.Error(t, err)
		repo.AssertNotCalled(t, "CreateCompliance", mock.Anything, mock.Anything)
	})
}

func TestServiceStats(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(repo *MockRepository)
		wantScore  int
		wantStatus string
	}{
		{
			name: "оценок еще нет",
			setupMocks: func(repo *MockRepository) {
				repo.On("GetLatestCompliance", mock.Anything, "uid-1").Return(nil, storage.ErrNotFound)
			},
			wantScore:  0,
			wantStatus: "Not Started",
		},
		{
			name: "высокий балл",
			setupMocks: func(repo *MockRepository) {
				repo.On("GetLatestCompliance", mock.Anything, "uid-1").Return(&models.Compliance{Score: 80}, nil)
			},
			wantScore:  80,
			wantStatus: "Compliant",
		},
		{
			name: "средний балл",
			setupMocks: func(repo *MockRepository) {
				repo.On("GetLatestCompliance", mock.Anything, "uid-1").Return(&models.Compliance{Score: 40}, nil)
			},
			wantScore:  40,
			wantStatus: "Partially Compliant",
		},
		{
			name: "низкий балл",
			setupMocks: func(repo *MockRepository) {
				repo.On("GetLatestCompliance", mock.Anything, "uid-1").Return(&models.Compliance{Score: 39}, nil)
			},
			wantScore:  39,
			wantStatus: "Non-Compliant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMocks(repo)

			svc := New(repo, new(MockAdvisor), newNoopLogger())
			stats, err := svc.Stats(context.Background(), "uid-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, stats.Score)
			assert.Equal(t, tt.wantStatus, stats.Status)
		})
	}
}
