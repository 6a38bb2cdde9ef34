package locate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the body signature.
const SignatureHeader = "X-Aegis-Signature"

const signaturePrefix = "sha256="

// Sign returns "sha256=<hex HMAC-SHA256 of body>".
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify compares header against the body signature in constant time.
func Verify(secret string, body []byte, header string) bool {
	if header == "" || !strings.HasPrefix(header, signaturePrefix) {
		return false
	}
	return hmac.Equal([]byte(Sign(secret, body)), []byte(header))
}
