package callback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// APIClient implementa TokenExchanger contra el endpoint POST /auth/token
// del backend.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *APIClient) Exchange(ctx context.Context, accessToken string) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader("{}"))
	if err != nil {
		return Session{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Un backend inalcanzable se reescribe en un único mensaje
		// accionable que nombra la dirección esperada.
		if isConnError(err) {
			return Session{}, fmt.Errorf("cannot connect to backend server. Is it running on %s?", c.baseURL)
		}
		return Session{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Session{}, fmt.Errorf("token exchange failed: %s", apiErrorMessage(body))
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Session{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if payload.AccessToken == "" {
		return Session{}, fmt.Errorf("token exchange returned no session")
	}
	return Session{AccessToken: payload.AccessToken, Email: payload.User.Email}, nil
}

func apiErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func isConnError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
