package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Plan
		wantOK bool
	}{
		{name: "нижний регистр", input: "base", want: PlanBase, wantOK: true},
		{name: "смешанный регистр", input: "Premium", want: PlanPremium, wantOK: true},
		{name: "верхний регистр с пробелами", input: "  PRO ", want: PlanPro, wantOK: true},
		{name: "неизвестный план", input: "enterprise"},
		{name: "пустая строка", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePlan(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPlanScanQuota(t *testing.T) {
	assert.Equal(t, 3, PlanBase.ScanQuota())
	assert.Equal(t, 10, PlanPremium.ScanQuota())
	assert.Equal(t, UnlimitedScans, PlanPro.ScanQuota())
	// Неизвестный план не получает ни одного сканирования
	assert.Equal(t, 0, Plan("enterprise").ScanQuota())
}

func TestPlanAllowsAI(t *testing.T) {
	assert.False(t, PlanBase.AllowsAI())
	assert.True(t, PlanPremium.AllowsAI())
	assert.True(t, PlanPro.AllowsAI())
}

func TestPlanDisplay(t *testing.T) {
	assert.Equal(t, "Base", PlanBase.Display())
	assert.Equal(t, "Premium", PlanPremium.Display())
	assert.Equal(t, "Pro", PlanPro.Display())
}
