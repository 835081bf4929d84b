package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Themes the web client ships with. The server only stores the preference.
var validThemes = map[string]bool{
	"default": true,
	"dark":    true,
	"light":   true,
	"palm":    true,
	"ocean":   true,
}

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("theme", validateTheme); err != nil {
		panic(fmt.Sprintf("failed to register theme validator: %v", err))
	}
}

// validateTheme validates that a string is a known theme name
func validateTheme(fl validator.FieldLevel) bool {
	return validThemes[fl.Field().String()]
}

// ValidateTheme validates a theme string value
func ValidateTheme(value string) error {
	if !validThemes[value] {
		return fmt.Errorf("invalid theme: %s", value)
	}
	return nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}
