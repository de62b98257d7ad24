package utils

import (
	"fmt"
	"regexp"
)

var (
	nonDigits = regexp.MustCompile(`\D`)

	// Ghana mobile-money prefixes per network. Ten digits total.
	mtnPattern      = regexp.MustCompile(`^(024|054|055|059|025)\d{7}$`)
	vodafonePattern = regexp.MustCompile(`^(050|020|010)\d{7}$`)
)

// CleanPhoneNumber strips every non-digit character.
func CleanPhoneNumber(phoneNumber string) string {
	return nonDigits.ReplaceAllString(phoneNumber, "")
}

// ValidatePhoneNumber reports whether the number matches the prefix rules of
// the given provider ("mtn" or "vodafone"). Unknown providers and malformed
// numbers return false. Pure, never panics.
func ValidatePhoneNumber(phoneNumber, provider string) bool {
	cleaned := CleanPhoneNumber(phoneNumber)

	switch provider {
	case "mtn":
		return mtnPattern.MatchString(cleaned)
	case "vodafone":
		return vodafonePattern.MatchString(cleaned)
	default:
		return false
	}
}

// FormatPhoneNumber renders a ten-digit number as "XXX XXX XXXX" for display.
func FormatPhoneNumber(phoneNumber string) string {
	cleaned := CleanPhoneNumber(phoneNumber)
	if len(cleaned) != 10 {
		return phoneNumber
	}
	return fmt.Sprintf("%s %s %s", cleaned[:3], cleaned[3:6], cleaned[6:])
}
