package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// NormalizePhone trims whitespace and reports whether the result is exactly
// 10 digits
func NormalizePhone(phone string) (string, bool) {
	phone = strings.TrimSpace(phone)
	return phone, phonePattern.MatchString(phone)
}
