package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned for any request that cannot be tied to a user:
// missing token, rejected token, identity service refusal.
var ErrUnauthorized = errors.New("unauthorized")

// Authenticator resolves a request to an opaque user id. Session mechanics
// live in the external identity service; this is the whole boundary.
type Authenticator interface {
	UserID(r *http.Request) (string, error)
}

// RemoteAuthenticator verifies the request's bearer token against the
// identity service and returns the user id it vouches for.
type RemoteAuthenticator struct {
	serviceURL string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewRemoteAuthenticator(serviceURL string, logger *zap.Logger) *RemoteAuthenticator {
	return &RemoteAuthenticator{
		serviceURL: strings.TrimSuffix(serviceURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (a *RemoteAuthenticator) UserID(r *http.Request) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.serviceURL+"/v1/me", nil)
	if err != nil {
		return "", fmt.Errorf("building identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("identity service unreachable", zap.Error(err))
		return "", ErrUnauthorized
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrUnauthorized
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.UserID == "" {
		a.logger.Error("identity service returned an unusable response", zap.Error(err))
		return "", ErrUnauthorized
	}

	return body.UserID, nil
}

// HeaderAuthenticator trusts a user id header outright. Local development
// and tests only; never run this facing the internet.
type HeaderAuthenticator struct {
	Header string
}

func (a HeaderAuthenticator) UserID(r *http.Request) (string, error) {
	id := r.Header.Get(a.Header)
	if id == "" {
		return "", ErrUnauthorized
	}
	return id, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
