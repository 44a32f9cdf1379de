package month

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStart(t *testing.T) {
	loc := time.FixedZone("CET", 3600)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "середина месяца",
			in:   time.Date(2025, time.March, 15, 13, 45, 30, 0, time.UTC),
			want: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "первое число остаётся первым",
			in:   time.Date(2025, time.March, 1, 0, 0, 0, 1, time.UTC),
			want: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "сохраняется часовой пояс",
			in:   time.Date(2025, time.December, 31, 23, 59, 59, 0, loc),
			want: time.Date(2025, time.December, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Start(tt.in)))
		})
	}
}

func TestContains(t *testing.T) {
	ref := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)

	assert.True(t, Contains(ref, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, Contains(ref, time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC)))
	assert.False(t, Contains(ref, time.Date(2025, time.May, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, Contains(ref, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
}
