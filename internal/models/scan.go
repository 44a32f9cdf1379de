package models

import "time"

// IssueType классифицирует найденную проблему по степени серьёзности.
type IssueType string

const (
	// IssueCritical — критичная проблема безопасности.
	IssueCritical IssueType = "critical"
	// IssueWarning — предупреждение.
	IssueWarning IssueType = "warning"
	// IssueInfo — информационное замечание.
	IssueInfo IssueType = "info"
)

// Issue описывает одну найденную проблему с человеко-читаемым заголовком и описанием.
type Issue struct {
	Type        IssueType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// SecurityHeaders — флаги присутствия стандартных заголовков безопасности.
type SecurityHeaders struct {
	ContentSecurityPolicy   bool `json:"content_security_policy"`
	StrictTransportSecurity bool `json:"strict_transport_security"`
	XFrameOptions           bool `json:"x_frame_options"`
	XContentTypeOptions     bool `json:"x_content_type_options"`
}

// ScanResults — вложенная структура результатов одной проверки сайта:
// итоговый балл, флаг HTTPS, заголовки безопасности и список проблем.
type ScanResults struct {
	URL             string          `json:"url"`
	Score           int             `json:"score"` // Всегда в диапазоне 0–100
	HTTPS           bool            `json:"https"`
	SecurityHeaders SecurityHeaders `json:"security_headers"`
	Issues          []Issue         `json:"issues"`
}

// Scan представляет результат одной проверки сайта, принадлежащий пользователю.
// После создания изменяется только ReportURL (первым сгенерированным отчётом).
type Scan struct {
	ID        int         `json:"id"`
	UserUID   string      `json:"user_uid"`
	URL       string      `json:"url"`
	Score     int         `json:"score"`
	Results   ScanResults `json:"results"`
	AIAdvice  *string     `json:"ai_advice,omitempty"`  // Только для Premium/Pro
	ReportURL *string     `json:"report_url,omitempty"` // null до генерации первого отчёта
	ScanDate  time.Time   `json:"scan_date"`
}
