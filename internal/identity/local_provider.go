package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

const localIssuer = "syncify-local"

// LocalProvider implementa Provider en memoria para desarrollo y pruebas:
// firma tokens HS256 propios y guarda credenciales con bcrypt. Reemplaza al
// proveedor externo cuando PROVIDER_URL no está configurado.
type LocalProvider struct {
	mu                  sync.Mutex
	secret              []byte
	tokenTTL            time.Duration
	requireConfirmation bool
	accounts            map[string]*localAccount
}

type localAccount struct {
	id           string
	email        string
	passwordHash string
	firstName    string
	lastName     string
	confirmed    bool
	createdAt    time.Time
}

type localClaims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

// NewLocalProvider crea el proveedor local. Con requireConfirmation el
// registro queda pendiente hasta llamar Confirm, igual que un proveedor
// real con confirmación de email activa.
func NewLocalProvider(secret string, tokenTTL time.Duration, requireConfirmation bool) *LocalProvider {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &LocalProvider{
		secret:              []byte(secret),
		tokenTTL:            tokenTTL,
		requireConfirmation: requireConfirmation,
		accounts:            make(map[string]*localAccount),
	}
}

func (p *LocalProvider) VerifyToken(_ context.Context, token string) (domain.ExternalIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ExternalIdentity{}, newError(KindInvalidToken, "missing access token", "")
	}

	var claims localClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return p.secret, nil
	})
	if err != nil || claims.Subject == "" || claims.Issuer != localIssuer {
		return domain.ExternalIdentity{}, newError(KindInvalidToken, "invalid or expired token", "")
	}

	identity := domain.ExternalIdentity{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
	if claims.IssuedAt != nil {
		identity.CreatedAt = claims.IssuedAt.Time
	}

	p.mu.Lock()
	if account, ok := p.accounts[normalizeLocalEmail(claims.Email)]; ok {
		identity.CreatedAt = account.createdAt
	}
	p.mu.Unlock()
	return identity, nil
}

func (p *LocalProvider) SignIn(_ context.Context, email, password string) (SignInResult, error) {
	key := normalizeLocalEmail(email)

	p.mu.Lock()
	account, ok := p.accounts[key]
	p.mu.Unlock()
	if !ok {
		return SignInResult{}, newError(KindInvalidCredentials, "Invalid login credentials", "invalid_credentials")
	}
	if !account.confirmed {
		return SignInResult{}, newError(KindInvalidCredentials, "Email not confirmed", "email_not_confirmed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.passwordHash), []byte(password)); err != nil {
		return SignInResult{}, newError(KindInvalidCredentials, "Invalid login credentials", "invalid_credentials")
	}

	token, err := p.mintToken(account)
	if err != nil {
		return SignInResult{}, err
	}
	return SignInResult{Identity: account.identity(), SessionToken: token}, nil
}

func (p *LocalProvider) SignUp(_ context.Context, email, password string, attrs SignUpAttrs) (SignUpResult, error) {
	key := normalizeLocalEmail(email)
	if key == "" {
		return SignUpResult{}, newError(KindRejected, "Email is required", "validation_failed")
	}
	if len(password) < 6 {
		return SignUpResult{}, newError(KindWeakPassword, "Password should be at least 6 characters", "weak_password")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[key]; exists {
		return SignUpResult{}, newError(KindRejected, "User already registered", "user_already_exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return SignUpResult{}, err
	}
	account := &localAccount{
		id:           uuid.NewString(),
		email:        key,
		passwordHash: string(hash),
		firstName:    strings.TrimSpace(attrs.FirstName),
		lastName:     strings.TrimSpace(attrs.LastName),
		confirmed:    !p.requireConfirmation,
		createdAt:    time.Now().UTC(),
	}
	p.accounts[key] = account

	if !account.confirmed {
		return SignUpResult{Identity: account.identity(), PendingVerification: true}, nil
	}
	token, err := p.mintToken(account)
	if err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{Identity: account.identity(), SessionToken: token}, nil
}

// Confirm marca el email como verificado y devuelve un token de sesión,
// emulando el deep-link de confirmación del proveedor real.
func (p *LocalProvider) Confirm(email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	account, ok := p.accounts[normalizeLocalEmail(email)]
	if !ok {
		return "", newError(KindRejected, "User not found", "user_not_found")
	}
	account.confirmed = true
	return p.mintToken(account)
}

func (p *LocalProvider) mintToken(account *localAccount) (string, error) {
	now := time.Now().UTC()
	claims := localClaims{
		Email:     account.email,
		FirstName: account.firstName,
		LastName:  account.lastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    localIssuer,
			Subject:   account.id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (a *localAccount) identity() domain.ExternalIdentity {
	return domain.ExternalIdentity{
		ID:        a.id,
		Email:     a.email,
		FirstName: a.firstName,
		LastName:  a.lastName,
		CreatedAt: a.createdAt,
	}
}

func normalizeLocalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
