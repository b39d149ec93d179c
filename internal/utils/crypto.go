package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateWebhookSecret returns a URL-safe secret for signing outbound
// webhook payloads: 32 bytes of entropy, base64url encoded. Callers show
// it to the operator exactly once at endpoint creation.
func GenerateWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
