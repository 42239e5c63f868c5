// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/dalemusser/ekaahub/internal/domain/models"
)

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// ContactStatus lowercases and trims a contact workflow status.
func ContactStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// OpenClosed maps any casing of open/closed to the stored Open/Closed form.
// Other values are returned trimmed so validation can reject them.
func OpenClosed(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "open":
		return models.StatusOpen
	case "closed":
		return models.StatusClosed
	}
	return s
}

// Digits strips everything but 0-9.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
