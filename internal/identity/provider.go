package identity

import (
	"context"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

// Provider define el contrato con el proveedor de identidad externo.
// Las implementaciones devuelven identidades normalizadas y errores de la
// taxonomía propia; no crean perfiles ni toman decisiones de sesión.
type Provider interface {
	// VerifyToken valida un token de acceso y devuelve la identidad.
	// No reintenta: la validación debe usar el token recibido tal cual.
	VerifyToken(ctx context.Context, token string) (domain.ExternalIdentity, error)

	// SignIn autentica con email y password y devuelve identidad + token.
	SignIn(ctx context.Context, email, password string) (SignInResult, error)

	// SignUp registra una cuenta nueva. Cuando el proveedor exige
	// confirmación por email no hay token todavía; eso es un éxito
	// distinto (PendingVerification), no un error.
	SignUp(ctx context.Context, email, password string, attrs SignUpAttrs) (SignUpResult, error)
}

// SignUpAttrs son los metadatos que acompañan el registro.
type SignUpAttrs struct {
	FirstName string
	LastName  string
}

type SignInResult struct {
	Identity     domain.ExternalIdentity
	SessionToken string
}

type SignUpResult struct {
	Identity            domain.ExternalIdentity
	SessionToken        string
	PendingVerification bool
}
