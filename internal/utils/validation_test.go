package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", date)

	for _, bad := range []string{"", "2025/03/10", "10-03-2025", "2025-13-01"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "09:00:00", expected: "09:00:00"},
		{input: "09:00", expected: "09:00:00"},
		{input: "23:59", expected: "23:59:00"},
		{input: "", wantErr: true},
		{input: "9:00 AM", wantErr: true},
		{input: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			normalized, err := ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized)
		})
	}
}
