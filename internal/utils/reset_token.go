package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
)

// GenerateResetToken returns a URL-safe random token with 256 bits of
// entropy, suitable for embedding in a password reset link.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// BuildResetURL builds the front-end link the reset email points at.
func BuildResetURL(baseURL, token, email string) string {
	return fmt.Sprintf("%s/Auth/ResetPassword?token=%s&email=%s",
		baseURL,
		url.QueryEscape(token),
		url.QueryEscape(email),
	)
}
