package models

import "strings"

// Plan — тарифный план пользователя. Канонические значения хранятся
// в нижнем регистре, для сообщений используется Display.
type Plan string

const (
	// PlanBase — бесплатный план, 3 сканирования в месяц.
	PlanBase Plan = "base"
	// PlanPremium — 10 сканирований в месяц, AI и комплексные отчёты.
	PlanPremium Plan = "premium"
	// PlanPro — без ограничения сканирований, AI и комплексные отчёты.
	PlanPro Plan = "pro"
)

// UnlimitedScans — значение квоты для планов без месячного лимита.
const UnlimitedScans = -1

// ParsePlan нормализует имя плана без учёта регистра и пробелов,
// false для неизвестного значения.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanBase:
		return PlanBase, true
	case PlanPremium:
		return PlanPremium, true
	case PlanPro:
		return PlanPro, true
	}
	return "", false
}

// ScanQuota возвращает месячную квоту сканирований плана.
// Неизвестный план не получает ни одного сканирования.
func (p Plan) ScanQuota() int {
	switch p {
	case PlanBase:
		return 3
	case PlanPremium:
		return 10
	case PlanPro:
		return UnlimitedScans
	}
	return 0
}

// AllowsAI сообщает, включены ли AI-возможности на плане.
func (p Plan) AllowsAI() bool {
	return p == PlanPremium || p == PlanPro
}

// AllowsComprehensiveReports сообщает, доступны ли комплексные отчёты.
func (p Plan) AllowsComprehensiveReports() bool {
	return p == PlanPremium || p == PlanPro
}

// Display возвращает имя плана с заглавной буквы для сообщений пользователю.
func (p Plan) Display() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[0])) + string(p[1:])
}
