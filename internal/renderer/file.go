package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// FileRenderer пишет артефакты отчётов в каталог на диске.
type FileRenderer struct {
	outputDir string
}

// NewFileRenderer создаёт каталог артефактов и возвращает рендерер.
func NewFileRenderer(outputDir string) (*FileRenderer, error) {
	const op = "renderer.NewFileRenderer"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &FileRenderer{outputDir: outputDir}, nil
}

// RenderSecurity генерирует отчёт по скану (и оценке — для комплексного отчёта).
func (f *FileRenderer) RenderSecurity(ctx context.Context, scan *models.Scan, compliance *models.Compliance, opts models.ReportOptions) (string, error) {
	const op = "renderer.RenderSecurity"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Security Report\nURL: %s\nScore: %d/100\n", scan.URL, scan.Score)
	if opts.IncludeDetails {
		fmt.Fprintf(&b, "\nFindings (%d):\n", len(scan.Results.Issues))
		for _, issue := range scan.Results.Issues {
			fmt.Fprintf(&b, "[%s] %s: %s\n", issue.Type, issue.Title, issue.Description)
		}
	}
	if opts.IncludeAI && scan.AIAdvice != nil {
		fmt.Fprintf(&b, "\nAI Advice:\n%s\n", *scan.AIAdvice)
	}
	if opts.IncludeRemediation {
		b.WriteString("\nRemediation: address critical findings first, re-scan after each fix.\n")
	}
	if compliance != nil {
		fmt.Fprintf(&b, "\nNIS2 Assessment\nScore: %d/100\n", compliance.Score)
		if opts.IncludeAI && compliance.Recommendations != nil {
			fmt.Fprintf(&b, "Recommendations:\n%s\n", *compliance.Recommendations)
		}
	}
	return f.write(op, b.String())
}

// RenderCompliance генерирует отчёт по NIS2-оценке.
func (f *FileRenderer) RenderCompliance(ctx context.Context, compliance *models.Compliance, opts models.ReportOptions) (string, error) {
	const op = "renderer.RenderCompliance"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var b strings.Builder
	fmt.Fprintf(&b, "NIS2 Compliance Report\nScore: %d/100\n", compliance.Score)
	if opts.IncludeDetails {
		fmt.Fprintf(&b, "\nAnswers (%d):\n", len(compliance.Answers))
		for _, a := range compliance.Answers {
			fmt.Fprintf(&b, "Q%d: %s\n", a.QuestionID, a.Answer)
		}
	}
	if opts.IncludeAI && compliance.Recommendations != nil {
		fmt.Fprintf(&b, "\nRecommendations:\n%s\n", *compliance.Recommendations)
	}
	if opts.IncludeRemediation {
		b.WriteString("\nRemediation: close the gaps marked \"No\" first.\n")
	}
	return f.write(op, b.String())
}

func (f *FileRenderer) write(op, content string) (string, error) {
	name := uuid.New().String() + ".pdf"
	if err := os.WriteFile(filepath.Join(f.outputDir, name), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return "/reports/files/" + name, nil
}
