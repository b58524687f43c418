package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

// HTTPProvider implementa Provider contra un servicio de auth estilo
// GoTrue (GET /auth/v1/user, POST /auth/v1/token, POST /auth/v1/signup).
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPProvider construye un cliente HTTP apuntando al proveedor.
func NewHTTPProvider(baseURL, apiKey string, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

type providerMetadata struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type providerUser struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	CreatedAt    time.Time        `json:"created_at"`
	UserMetadata providerMetadata `json:"user_metadata"`
}

// sessionResponse cubre las dos formas de respuesta del proveedor: sesión
// con usuario anidado, o usuario plano cuando falta confirmación de email.
type sessionResponse struct {
	AccessToken string        `json:"access_token"`
	User        *providerUser `json:"user"`
	providerUser
}

type providerErrorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorStr         string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Code             any    `json:"code"`
}

func (b providerErrorBody) message() string {
	for _, m := range []string{b.Msg, b.Message, b.ErrorDescription, b.ErrorStr} {
		if m != "" {
			return m
		}
	}
	return ""
}

func (b providerErrorBody) code() string {
	if b.ErrorCode != "" {
		return b.ErrorCode
	}
	if s, ok := b.Code.(string); ok {
		return s
	}
	return ""
}

func (u providerUser) identity() domain.ExternalIdentity {
	return domain.ExternalIdentity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.UserMetadata.FirstName,
		LastName:  u.UserMetadata.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func (p *HTTPProvider) VerifyToken(ctx context.Context, token string) (domain.ExternalIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ExternalIdentity{}, newError(KindInvalidToken, "missing access token", "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", p.apiKey)

	body, status, err := p.do(req)
	if err != nil {
		return domain.ExternalIdentity{}, err
	}
	if status >= 400 {
		return domain.ExternalIdentity{}, newError(KindInvalidToken, "invalid or expired token", parseProviderError(body).code())
	}

	var user providerUser
	if err := json.Unmarshal(body, &user); err != nil {
		return domain.ExternalIdentity{}, fmt.Errorf("unmarshal user: %w", err)
	}
	if user.ID == "" {
		return domain.ExternalIdentity{}, newError(KindInvalidToken, "invalid or expired token", "")
	}
	return user.identity(), nil
}

func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	payload := map[string]string{"email": email, "password": password}
	body, status, err := p.post(ctx, "/auth/v1/token?grant_type=password", payload)
	if err != nil {
		return SignInResult{}, err
	}
	if status >= 400 {
		perr := parseProviderError(body)
		return SignInResult{}, newError(KindInvalidCredentials, perr.message(), perr.code())
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SignInResult{}, fmt.Errorf("unmarshal session: %w", err)
	}
	if resp.AccessToken == "" || resp.User == nil {
		return SignInResult{}, newError(KindInvalidCredentials, "", "")
	}
	return SignInResult{
		Identity:     resp.User.identity(),
		SessionToken: resp.AccessToken,
	}, nil
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string, attrs SignUpAttrs) (SignUpResult, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"first_name": attrs.FirstName,
			"last_name":  attrs.LastName,
		},
	}
	body, status, err := p.post(ctx, "/auth/v1/signup", payload)
	if err != nil {
		return SignUpResult{}, err
	}
	if status >= 400 {
		perr := parseProviderError(body)
		return SignUpResult{}, classifySignUpError(perr)
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SignUpResult{}, fmt.Errorf("unmarshal signup: %w", err)
	}

	// Con sesión inmediata el usuario viene anidado; con confirmación
	// pendiente el proveedor devuelve el usuario plano sin token.
	if resp.AccessToken != "" && resp.User != nil {
		return SignUpResult{
			Identity:     resp.User.identity(),
			SessionToken: resp.AccessToken,
		}, nil
	}
	if resp.ID == "" {
		return SignUpResult{}, newError(KindRejected, "failed to create user", "")
	}
	return SignUpResult{
		Identity:            resp.providerUser.identity(),
		PendingVerification: true,
	}, nil
}

// classifySignUpError separa el defecto de configuración del proveedor
// (trigger o storage roto) del rechazo genérico.
func classifySignUpError(perr providerErrorBody) *Error {
	if perr.code() == "unexpected_failure" || strings.Contains(perr.message(), "Database error") {
		return newError(KindProviderConfig, perr.message(), perr.code())
	}
	return newError(KindRejected, perr.message(), perr.code())
}

func (p *HTTPProvider) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	return p.do(req)
}

func (p *HTTPProvider) do(req *http.Request) ([]byte, int, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 && p.logger != nil {
		p.logger.Warn("provider error response",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
		)
	}
	return body, resp.StatusCode, nil
}

func parseProviderError(body []byte) providerErrorBody {
	var perr providerErrorBody
	_ = json.Unmarshal(body, &perr)
	return perr
}
