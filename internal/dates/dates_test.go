package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		date string
		n    int
		want string
	}{
		{"same day", "2024-01-05", 0, "2024-01-05"},
		{"forward", "2024-01-05", 3, "2024-01-08"},
		{"month boundary", "2024-01-30", 5, "2024-02-04"},
		{"leap day", "2024-02-28", 1, "2024-02-29"},
		{"year boundary", "2023-12-30", 2, "2024-01-01"},
		{"dst spring forward", "2024-03-30", 2, "2024-04-01"},
		{"negative", "2024-01-05", -7, "2023-12-29"},
		{"unparseable passes through", "not-a-date", 3, "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddDays(tt.date, tt.n))
		})
	}
}

func TestSubDays(t *testing.T) {
	assert.Equal(t, "2023-12-25", SubDays("2024-01-01", 7))
	assert.Equal(t, "2023-01-01", SubDays("2024-01-01", 365))
}

func TestNextDay(t *testing.T) {
	assert.Equal(t, "2024-03-01", NextDay("2024-02-29"))
	assert.Equal(t, "2025-03-01", NextDay("2025-02-28"))
}

func TestNormalizeISO(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-05", "2024-01-05"},
		{"05-01-2024", "2024-01-05"},
		{"05/01/2024", "2024-01-05"},
		{"", ""},
		{"yesterday", "yesterday"},
		{"2024/01/05", "2024/01/05"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeISO(tt.input), "input %q", tt.input)
	}
}

func TestTodayShape(t *testing.T) {
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, Today())
}
