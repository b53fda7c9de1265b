package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	p := NewPromptProcessor(10)

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "valid input", input: "a prompt", want: "a prompt"},
		{name: "trims whitespace", input: "  test  ", want: "test"},
		{name: "removes control characters", input: "te\x00st\x01", want: "test"},
		{name: "keeps newlines", input: "a\nb", want: "a\nb"},
		{name: "empty", input: "", wantErr: "input cannot be empty"},
		{name: "whitespace only", input: "   \n\t  ", wantErr: "input cannot be empty"},
		{name: "too long", input: strings.Repeat("a", 11), wantErr: "input too long"},
		{name: "length counts runes", input: strings.Repeat("é", 10), want: strings.Repeat("é", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Validate(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, IsPermanent(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPromptProcessorDefaultLength(t *testing.T) {
	p := NewPromptProcessor(0)
	_, err := p.Validate(strings.Repeat("a", DefaultMaxInputLength))
	assert.NoError(t, err)
}
