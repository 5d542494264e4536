package fairness

import (
	"fmt"
	"net/url"
	"strings"
)

// Placeholders expanded by VerificationURL.
const (
	MovePlaceholder = "{move}"
	KeyPlaceholder  = "{key}"
)

// DefaultVerifyURL points at a public HMAC-SHA256 calculator prefilled with the
// revealed move and key.
const DefaultVerifyURL = "https://emn178.github.io/online-tools/sha256.html?input={move}&input_type=utf-8&output_type=hex&hmac_enabled=1&hmac_input_type=utf-8&hmac_key={key}"

// ValidateVerifyURL checks that template is an absolute URL carrying both
// placeholders.
func ValidateVerifyURL(template string) error {
	if !strings.Contains(template, MovePlaceholder) || !strings.Contains(template, KeyPlaceholder) {
		return fmt.Errorf("verify URL must contain %s and %s", MovePlaceholder, KeyPlaceholder)
	}
	u, err := url.Parse(template)
	if err != nil {
		return fmt.Errorf("invalid verify URL: %w", err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("verify URL must be absolute: %s", template)
	}
	return nil
}

// VerificationURL expands template with the revealed move and key.
func VerificationURL(template string, r Reveal) (string, error) {
	if err := ValidateVerifyURL(template); err != nil {
		return "", err
	}
	replacer := strings.NewReplacer(
		MovePlaceholder, url.QueryEscape(r.Move),
		KeyPlaceholder, url.QueryEscape(r.Key),
	)
	return replacer.Replace(template), nil
}
