// Package renderer описывает внешний генератор отчётов и файловую реализацию.
//
// Содержимое документа — зона внешнего коллаборатора; файловая реализация
// записывает минимальный артефакт с учётом флагов секций и возвращает
// локатор вида /reports/files/<uuid>.pdf.
package renderer

import (
	"context"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// Renderer — контракт генерации отчётных артефактов. Возвращаемая строка —
// непрозрачный локатор, который сохраняется в Report.FilePath.
type Renderer interface {
	// RenderSecurity генерирует отчёт по скану; compliance передаётся
	// не-nil только для комплексного отчёта.
	RenderSecurity(ctx context.Context, scan *models.Scan, compliance *models.Compliance, opts models.ReportOptions) (string, error)
	// RenderCompliance генерирует отчёт по NIS2-оценке.
	RenderCompliance(ctx context.Context, compliance *models.Compliance, opts models.ReportOptions) (string, error)
}
