package lot

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trucklot/backend/internal/domain/shared"
	"golang.org/x/text/unicode/norm"
)

// Field length limits.
const (
	MaxNameLen      = 80
	MaxCompanyLen   = 80
	MaxMakeModelLen = 40
	MaxNotesLen     = 300
	MaxReferenceLen = 60
	MaxTextLen      = 200
)

var (
	phonePattern = regexp.MustCompile(`^[0-9()+\-.\s]{7,20}$`)
	platePattern = regexp.MustCompile(`^[A-Z0-9\-\s]{2,15}$`)
	statePattern = regexp.MustCompile(`^[A-Z]{2}$`)

	dashReplacer  = strings.NewReplacer("—", "-", "–", "-")
	moneyReplacer = strings.NewReplacer("$", "", ",", "")
)

// NormalizeWhitespace applies NFC normalization, trims, and collapses runs of
// whitespace to single spaces.
func NormalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(norm.NFC.String(value)), " ")
}

// RequiredText normalizes value and rejects blanks and values over maxLen
// characters.
func RequiredText(label, value string, maxLen int) (string, error) {
	cleaned := NormalizeWhitespace(value)
	if cleaned == "" {
		return "", shared.InvalidInputf("%s is required.", label)
	}
	if len([]rune(cleaned)) > maxLen {
		return "", shared.InvalidInputf("%s must be %d characters or fewer.", label, maxLen)
	}
	return cleaned, nil
}

// OptionalText normalizes value, returning nil for blanks.
func OptionalText(label, value string, maxLen int) (*string, error) {
	cleaned := NormalizeWhitespace(value)
	if cleaned == "" {
		return nil, nil
	}
	if len([]rune(cleaned)) > maxLen {
		return nil, shared.InvalidInputf("%s must be %d characters or fewer.", label, maxLen)
	}
	return &cleaned, nil
}

// OptionalPhone validates a free-form phone number.
func OptionalPhone(value string) (*string, error) {
	cleaned := NormalizeWhitespace(value)
	if cleaned == "" {
		return nil, nil
	}
	if !phonePattern.MatchString(cleaned) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Phone format is invalid.")
	}
	return &cleaned, nil
}

// NormalizePlate uppercases a plate and maps typographic dashes to "-".
func NormalizePlate(value string) string {
	return dashReplacer.Replace(strings.ToUpper(NormalizeWhitespace(value)))
}

// RequiredPlate validates and normalizes a licence plate.
func RequiredPlate(value string) (string, error) {
	cleaned := NormalizePlate(value)
	if cleaned == "" {
		return "", shared.NewDomainError(shared.ErrInvalidInput.Code, "Plate is required.")
	}
	if !platePattern.MatchString(cleaned) {
		return "", shared.NewDomainError(shared.ErrInvalidInput.Code, "Plate must be 2-15 chars (A-Z, 0-9, dash, space).")
	}
	return cleaned, nil
}

// IsValidPlate reports whether value normalizes to a valid plate.
func IsValidPlate(value string) bool {
	_, err := RequiredPlate(value)
	return err == nil
}

// OptionalState validates a two letter state code.
func OptionalState(value string) (*string, error) {
	cleaned := strings.ToUpper(NormalizeWhitespace(value))
	if cleaned == "" {
		return nil, nil
	}
	if !statePattern.MatchString(cleaned) {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "State must be exactly 2 letters (e.g., TX).")
	}
	return &cleaned, nil
}

// ParseAmount parses a positive money amount, tolerating "$" and thousands
// separators.
func ParseAmount(label, value string) (decimal.Decimal, error) {
	cleaned := moneyReplacer.Replace(NormalizeWhitespace(value))
	if cleaned == "" {
		return decimal.Zero, shared.InvalidInputf("%s is required.", label)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, shared.InvalidInputf("%s must be numeric.", label)
	}
	if !amount.IsPositive() {
		return decimal.Zero, shared.InvalidInputf("%s must be greater than 0.", label)
	}
	return amount, nil
}
