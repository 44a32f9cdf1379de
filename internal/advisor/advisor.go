// Package advisor описывает внешнего AI-советника и две его реализации:
// openai (через API чат-комплишенов) и static (фиксированные тексты, без
// внешних вызовов — единственная реализация, доступная в тестах и локальной
// разработке).
package advisor

import (
	"context"
	"fmt"

	"github.com/glebmarkov/nis2-dashboard/internal/config"
	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// Advisor — контракт генерации советов. Вызовы блокируют запрос до ответа
// коллаборатора; ошибка советника означает отказ всей операции.
type Advisor interface {
	// SecurityAdvice формирует рекомендации по результатам сканирования.
	SecurityAdvice(ctx context.Context, results models.ScanResults) (string, error)
	// ComplianceAdvice формирует рекомендации по ответам NIS2-анкеты.
	ComplianceAdvice(ctx context.Context, answers []models.Answer) (string, error)
	// Ask отвечает на произвольный вопрос пользователя с опциональным контекстом.
	Ask(ctx context.Context, question, questionContext string) (string, error)
}

// New выбирает реализацию советника по конфигурации.
func New(cfg config.Advisor) (Advisor, error) {
	switch cfg.AdvisorDriver {
	case "openai":
		return NewOpenAI(cfg)
	case "static", "":
		return NewStatic(), nil
	}
	return nil, fmt.Errorf("advisor.New: unknown driver %q", cfg.AdvisorDriver)
}
