// Package whatsapp is the outbound messaging boundary. The core's only
// obligation is producing a correctly encoded link; opening it (the actual
// send) belongs to the caller.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jafarshop/storefront/pkg/errors"
)

// NormalizeNumber strips formatting characters from a contact number and
// rejects anything that isn't digits afterwards. Numbers are stored in
// international format without the plus, e.g. "6281234567890".
func NormalizeNumber(raw string) (string, error) {
	cleaned := strings.NewReplacer("+", "", " ", "", "-", "", ".", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", &errors.ValidationError{Field: "whatsAppNumber", Message: "whatsapp number cannot be empty"}
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", &errors.ValidationError{Field: "whatsAppNumber", Message: "whatsapp number must contain only digits"}
		}
	}
	return cleaned, nil
}

// OrderLink builds the wa.me URL carrying the composed order message.
// Spaces are encoded as %20, not +, which is what WhatsApp expects in the
// text parameter.
func OrderLink(number, message string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, encoded)
}
