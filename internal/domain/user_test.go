package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"uses name when set", User{Name: "Ola", Email: "ola@example.com"}, "Ola"},
		{"falls back to email local part", User{Email: "marek@example.com"}, "marek"},
		{"email without domain", User{Email: "marek"}, "marek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.DisplayName())
		})
	}
}
