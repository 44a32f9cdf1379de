package scan

import (
	"hash/fnv"
	"strings"

	"github.com/glebmarkov/nis2-dashboard/internal/models"
)

// totalChecks — общее число проверок, против которого статистика считает
// пройденные тесты.
const totalChecks = 18

// check — одна проверка-заглушка: штраф к баллу и текст проблемы.
type check struct {
	issueType   models.IssueType
	title       string
	description string
	penalty     int
}

var headerChecks = []struct {
	present func(models.SecurityHeaders) bool
	check   check
}{
	{
		present: func(h models.SecurityHeaders) bool { return h.ContentSecurityPolicy },
		check: check{
			issueType:   models.IssueWarning,
			title:       "Missing Content-Security-Policy",
			description: "The site does not declare a CSP, which could prevent XSS attacks.",
			penalty:     12,
		},
	},
	{
		present: func(h models.SecurityHeaders) bool { return h.StrictTransportSecurity },
		check: check{
			issueType:   models.IssueWarning,
			title:       "Missing Strict-Transport-Security",
			description: "Without HSTS, browsers may fall back to plain HTTP connections.",
			penalty:     10,
		},
	},
	{
		present: func(h models.SecurityHeaders) bool { return h.XFrameOptions },
		check: check{
			issueType:   models.IssueWarning,
			title:       "Missing X-Frame-Options",
			description: "The site can be embedded in frames, enabling clickjacking.",
			penalty:     8,
		},
	},
	{
		present: func(h models.SecurityHeaders) bool { return h.XContentTypeOptions },
		check: check{
			issueType:   models.IssueInfo,
			title:       "Missing X-Content-Type-Options",
			description: "Responses may be MIME-sniffed by the browser.",
			penalty:     5,
		},
	},
}

// Check выполняет поверхностную проверку-заглушку: результат детерминирован
// относительно URL (FNV-хэш), форма результата — балл 0–100 и список проблем
// с трёхуровневой классификацией. Реальное сканирование — вне рамок системы.
func Check(url string) models.ScanResults {
	h := fnv.New64a()
	_, _ = h.Write([]byte(url))
	seed := h.Sum64()

	results := models.ScanResults{
		URL:   url,
		HTTPS: !strings.HasPrefix(strings.ToLower(url), "http://"),
		SecurityHeaders: models.SecurityHeaders{
			ContentSecurityPolicy:   seed&(1<<0) != 0,
			StrictTransportSecurity: seed&(1<<1) != 0,
			XFrameOptions:           seed&(1<<2) != 0,
			XContentTypeOptions:     seed&(1<<3) != 0,
		},
	}

	score := 100
	if !results.HTTPS {
		score -= 30
		results.Issues = append(results.Issues, models.Issue{
			Type:        models.IssueCritical,
			Title:       "Missing HTTPS",
			Description: "The site is served over plain HTTP; traffic can be intercepted.",
		})
	}
	for _, hc := range headerChecks {
		if hc.present(results.SecurityHeaders) {
			continue
		}
		score -= hc.check.penalty
		results.Issues = append(results.Issues, models.Issue{
			Type:        hc.check.issueType,
			Title:       hc.check.title,
			Description: hc.check.description,
		})
	}
	if seed&(1<<4) != 0 {
		score -= 3
		results.Issues = append(results.Issues, models.Issue{
			Type:        models.IssueInfo,
			Title:       "Server version disclosed",
			Description: "The Server response header reveals software version details.",
		})
	}

	if score < 0 {
		score = 0
	}
	results.Score = score
	return results
}
