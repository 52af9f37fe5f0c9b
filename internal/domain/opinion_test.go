package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRate(t *testing.T) {
	assert.True(t, ValidRate(0))
	assert.True(t, ValidRate(10))
	assert.False(t, ValidRate(-1))
	assert.False(t, ValidRate(11))
}

func TestRateSeverity(t *testing.T) {
	tests := []struct {
		rate int
		want Severity
	}{
		{0, SeverityLow},
		{3, SeverityLow},
		{4, SeverityMedium},
		{6, SeverityMedium},
		{7, SeverityHigh},
		{10, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rate), func(t *testing.T) {
			assert.Equal(t, tt.want, RateSeverity(tt.rate))
		})
	}
}
