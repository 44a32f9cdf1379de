package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// Static — детерминированный советник с фиксированными текстами.
// Используется в тестах и локальной разработке вместо внешнего API.
type Static struct{}

// NewStatic создаёт статического советника.
func NewStatic() *Static {
	return &Static{}
}

// SecurityAdvice возвращает фиксированный набор рекомендаций с итоговым баллом.
func (s *Static) SecurityAdvice(_ context.Context, results models.ScanResults) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Your website scored %d/100.\n", results.Score)
	b.WriteString("Recommended improvements:\n")
	b.WriteString("1. Serve all traffic over HTTPS with HSTS enabled.\n")
	b.WriteString("2. Add a Content-Security-Policy header to mitigate XSS.\n")
	b.WriteString("3. Set Secure and HttpOnly attributes on all cookies.\n")
	b.WriteString("4. Keep frameworks and libraries up to date.\n")
	b.WriteString("5. Re-scan regularly to catch regressions.")
	return b.String(), nil
}

// ComplianceAdvice возвращает фиксированные шаги с учётом числа слабых ответов.
func (s *Static) ComplianceAdvice(_ context.Context, answers []models.Answer) (string, error) {
	gaps := 0
	for _, a := range answers {
		if a.Answer != "Yes, fully implemented" {
			gaps++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "The assessment shows %d of %d areas below full implementation.\n", gaps, len(answers))
	b.WriteString("Start with a documented security policy, then formalize supplier ")
	b.WriteString("risk assessment and incident response testing. Schedule a follow-up ")
	b.WriteString("assessment within three months.")
	return b.String(), nil
}

// Ask возвращает шаблонный ответ на вопрос.
func (s *Static) Ask(_ context.Context, question, _ string) (string, error) {
	return fmt.Sprintf(
		"Regarding %q: align the measure with your NIS2 risk management "+
			"baseline and document the decision.", question), nil
}
