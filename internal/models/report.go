package models

import "time"

// ReportType — тип генерируемого отчёта.
type ReportType string

const (
	// ReportSecurity — отчёт по результатам сканирования сайта.
	ReportSecurity ReportType = "security"
	// ReportNIS2 — отчёт по NIS2-оценке.
	ReportNIS2 ReportType = "nis2"
	// ReportComprehensive — комплексный отчёт (скан + оценка), только Premium/Pro.
	ReportComprehensive ReportType = "comprehensive"
)

// ParseReportType нормализует тип отчёта, false для неизвестного значения.
func ParseReportType(s string) (ReportType, bool) {
	switch ReportType(s) {
	case ReportSecurity, ReportNIS2, ReportComprehensive:
		return ReportType(s), true
	}
	return "", false
}

// Report — ссылка на сгенерированный артефакт отчёта.
// Записи неизменяемы и не удаляются.
type Report struct {
	ID           int        `json:"id"`
	UserUID      string     `json:"user_uid"`
	ScanID       *int       `json:"scan_id,omitempty"`
	ComplianceID *int       `json:"compliance_id,omitempty"`
	ReportType   ReportType `json:"report_type"`
	FilePath     string     `json:"file_path"` // Локатор, выданный рендерером
	CreatedAt    time.Time  `json:"created_at"`
}

// ReportOptions — флаги секций отчёта. Отсутствующие в запросе флаги
// трактуются как true, см. DummyReportRequest.Options.
type ReportOptions struct {
	IncludeDetails     bool `json:"include_details"`
	IncludeAI          bool `json:"include_ai"`
	IncludeRemediation bool `json:"include_remediation"`
}

// DummyReportRequest используется для приёма JSON-запроса на генерацию отчёта.
// Флаги секций приходят указателями, чтобы отличать "не передано" от false.
type DummyReportRequest struct {
	ScanID             *int   `json:"scan_id"`
	ComplianceID       *int   `json:"compliance_id"`
	ReportType         string `json:"report_type" validate:"required"`
	IncludeDetails     *bool  `json:"include_details"`
	IncludeAI          *bool  `json:"include_ai"`
	IncludeRemediation *bool  `json:"include_remediation"`
}

// Options собирает ReportOptions из запроса: отсутствующий флаг означает true.
func (r DummyReportRequest) Options() ReportOptions {
	opts := ReportOptions{IncludeDetails: true, IncludeAI: true, IncludeRemediation: true}
	if r.IncludeDetails != nil {
		opts.IncludeDetails = *r.IncludeDetails
	}
	if r.IncludeAI != nil {
		opts.IncludeAI = *r.IncludeAI
	}
	if r.IncludeRemediation != nil {
		opts.IncludeRemediation = *r.IncludeRemediation
	}
	return opts
}
