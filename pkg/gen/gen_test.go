package gen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/gen"
)

func TestNumberToWord(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "Zero"},
		{1, "One"},
		{2, "Two"},
		{10, "Ten"},
		{13, "Thirteen"},
		{20, "Twenty"},
		{21, "Twentyone"},
		{45, "Fortyfive"},
		{99, "Ninetynine"},
		{100, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gen.NumberToWord(tt.n), "n=%d", tt.n)
	}
}

func TestNewSummarizerDefaults(t *testing.T) {
	s := gen.NewSummarizer(config.SummaryConfig{APIKey: "test-key"})
	assert.NotNil(t, s)
}
