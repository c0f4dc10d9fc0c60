package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain digits", "5551234567", "5551234567"},
		{"formatted", "(555) 123-4567", "5551234567"},
		{"dots", "555.123.4567", "5551234567"},
		{"leading country code", "15551234567", "5551234567"},
		{"plus country code", "+1 555 123 4567", "5551234567"},
		{"too short", "555123", ""},
		{"too long", "555123456789", ""},
		{"eleven digits no leading one", "25551234567", ""},
		{"empty", "", ""},
		{"letters only", "call me", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}
