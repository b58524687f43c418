// Package callback implementa la máquina de estados del deep-link de
// confirmación de email: localizar un token usable entre varias fuentes,
// en orden estricto de prioridad, hasta establecer una sesión canónica.
package callback

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// State es el estado terminal del flujo. Loading es el estado inicial.
type State int

const (
	StateLoading State = iota
	StateSuccess
	StateError
)

const (
	DashboardPath = "/dashboard"
	SignInPath    = "/signin"

	successRedirectDelay = 2 * time.Second
	errorRedirectDelay   = 3 * time.Second
)

// Params son los valores extraídos de la URL de redirección del proveedor.
// El fragment lleva los tokens; algunos flujos usan query params.
type Params struct {
	FragmentAccessToken  string
	FragmentRefreshToken string
	FragmentType         string
	QueryToken           string
	QueryType            string
}

// ParseParams descompone el fragment (#a=b&c=d) y los query params de la
// URL de callback.
func ParseParams(fragment string, query url.Values) Params {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		values = url.Values{}
	}
	return Params{
		FragmentAccessToken:  values.Get("access_token"),
		FragmentRefreshToken: values.Get("refresh_token"),
		FragmentType:         values.Get("type"),
		QueryToken:           query.Get("token"),
		QueryType:            query.Get("type"),
	}
}

// Session es la sesión canónica devuelta por el intercambio de token.
type Session struct {
	AccessToken string
	Email       string
}

// TokenExchanger intercambia un token del proveedor por la sesión canónica.
type TokenExchanger interface {
	Exchange(ctx context.Context, accessToken string) (Session, error)
}

// ProviderSession gestiona la sesión activa del proveedor en el cliente.
type ProviderSession interface {
	// Current devuelve el access token de la sesión activa, si hay una.
	Current(ctx context.Context) (string, bool)
	// Install activa la sesión a partir de los tokens del fragment.
	Install(ctx context.Context, accessToken, refreshToken string) error
}

// CredentialStore persiste la sesión establecida en el cliente.
type CredentialStore interface {
	Save(token, email string)
}

// Outcome es el resultado terminal del flujo, con la redirección a
// programar. RedirectAfter deja renderizar el mensaje antes de navegar.
type Outcome struct {
	State         State
	Message       string
	RedirectTo    string
	RedirectAfter time.Duration
}

// Reconciler ejecuta las fuentes de token en secuencia, sin paralelismo,
// para que la atribución de errores sea determinista.
type Reconciler struct {
	logger    *zap.Logger
	exchanger TokenExchanger
	session   ProviderSession
	store     CredentialStore
}

func NewReconciler(logger *zap.Logger, exchanger TokenExchanger, session ProviderSession, store CredentialStore) *Reconciler {
	return &Reconciler{
		logger:    logger,
		exchanger: exchanger,
		session:   session,
		store:     store,
	}
}

// Run recorre las fuentes en orden de prioridad y corta en el primer éxito:
//  1. token del fragment cuando el type es signup
//  2. instalar la sesión del proveedor con access+refresh y re-derivar
//  3. sesión del proveedor ya activa
//
// Agotadas las fuentes el estado es Error con redirect al sign-in manual.
func (r *Reconciler) Run(ctx context.Context, params Params) Outcome {
	isSignup := params.FragmentType == "signup" || params.QueryType == "signup"

	if isSignup && params.FragmentAccessToken != "" {
		if sess, err := r.exchanger.Exchange(ctx, params.FragmentAccessToken); err == nil {
			return r.success(sess)
		} else if r.logger != nil {
			r.logger.Warn("fragment token exchange failed", zap.Error(err))
		}
	}

	if params.FragmentAccessToken != "" && params.FragmentRefreshToken != "" {
		if err := r.session.Install(ctx, params.FragmentAccessToken, params.FragmentRefreshToken); err == nil {
			if token, ok := r.session.Current(ctx); ok {
				if sess, err := r.exchanger.Exchange(ctx, token); err == nil {
					return r.success(sess)
				}
			}
		} else if r.logger != nil {
			r.logger.Warn("session install failed", zap.Error(err))
		}
	}

	if token, ok := r.session.Current(ctx); ok {
		if sess, err := r.exchanger.Exchange(ctx, token); err == nil {
			return r.success(sess)
		}
	}

	return Outcome{
		State:         StateError,
		Message:       "Failed to verify email. Please try signing in.",
		RedirectTo:    SignInPath,
		RedirectAfter: errorRedirectDelay,
	}
}

func (r *Reconciler) success(sess Session) Outcome {
	if r.store != nil {
		r.store.Save(sess.AccessToken, sess.Email)
	}
	return Outcome{
		State:         StateSuccess,
		Message:       "Email verified successfully! Redirecting...",
		RedirectTo:    DashboardPath,
		RedirectAfter: successRedirectDelay,
	}
}

// ScheduleRedirect espera el retraso del resultado y ejecuta navigate.
// Cancelar el contexto (desmontaje de la vista) descarta la navegación.
func ScheduleRedirect(ctx context.Context, outcome Outcome, navigate func(path string)) {
	if outcome.RedirectTo == "" || navigate == nil {
		return
	}
	timer := time.NewTimer(outcome.RedirectAfter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
		navigate(outcome.RedirectTo)
	}
}
