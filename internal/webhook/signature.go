package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
)

// The header name has drifted across provider versions, so both spellings are
// probed in order.
var signatureHeaders = []string{"X-Elevenlabs-Signature", "Elevenlabs-Signature"}

// SignatureFromRequest returns the first signature header present, or "".
func SignatureFromRequest(r *http.Request) string {
	for _, name := range signatureHeaders {
		if v := r.Header.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// VerifySignature checks that signature is the hex HMAC-SHA256 of the raw
// request body under secret. The body must be the exact bytes received:
// re-serializing parsed JSON reorders keys and invalidates the digest. Any
// malformed input fails closed.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}

	// Some provider versions prefix the digest with a scheme tag.
	sig := strings.TrimPrefix(strings.TrimSpace(signature), "v0=")

	supplied, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), supplied)
}

// Sign computes the hex HMAC-SHA256 digest of body under secret. Used by
// tests and local tooling to produce valid webhook requests.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
