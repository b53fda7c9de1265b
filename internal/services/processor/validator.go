package processor

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validate sanitizes input and rejects empty or oversized prompts.
func (p *PromptProcessor) Validate(input string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", fmt.Errorf("%w: input cannot be empty", ErrValidation)
	}

	if size := utf8.RuneCountInString(cleaned); size > p.maxInputLength {
		return "", fmt.Errorf("%w: input too long (%d characters, maximum %d)", ErrValidation, size, p.maxInputLength)
	}

	return cleaned, nil
}
