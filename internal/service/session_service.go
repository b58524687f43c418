package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Shail-ja/Project-syncify/internal/domain"
	"github.com/Shail-ja/Project-syncify/internal/identity"
	"github.com/Shail-ja/Project-syncify/internal/repository"
)

// SessionService orquesta validación de token, merge de perfil y armado de
// la respuesta canónica para todos los puntos de entrada de sesión.
type SessionService struct {
	logger      *zap.Logger
	provider    identity.Provider
	profiles    repository.ProfileRepository
	activity    repository.ActivityRepository
	adminEmails map[string]struct{}
	limiter     LoginRateLimiter
	now         func() time.Time
}

var (
	ErrUnauthorized = errors.New("invalid or expired token")
	ErrWeakPassword = errors.New("password must be at least 6 characters long")
	ErrRateLimited  = errors.New("rate limited")
)

// NewSessionService crea el servicio. activity y limiter son opcionales.
func NewSessionService(
	logger *zap.Logger,
	provider identity.Provider,
	profiles repository.ProfileRepository,
	activity repository.ActivityRepository,
	adminEmails []string,
	limiter LoginRateLimiter,
) *SessionService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &SessionService{
		logger:      logger,
		provider:    provider,
		profiles:    profiles,
		activity:    activity,
		adminEmails: admins,
		limiter:     limiter,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SessionResult es el payload canónico de una sesión establecida.
type SessionResult struct {
	SessionToken string
	User         domain.CanonicalUser
}

type LoginResult struct {
	SessionToken string
	Email        string
	FirstName    string
	LastName     string
}

type RegisterResult struct {
	SessionToken              string
	Email                     string
	RequiresEmailVerification bool
}

// TokenExchange valida el token contra el proveedor, reconcilia el perfil
// local y devuelve la sesión canónica. La escritura del perfil es
// best-effort: la respuesta debe poder derivarse de la identidad sola.
func (s *SessionService) TokenExchange(ctx context.Context, token string) (SessionResult, error) {
	ident, err := s.provider.VerifyToken(ctx, token)
	if err != nil {
		s.logger.Debug("token verification failed", zap.Error(err))
		return SessionResult{}, ErrUnauthorized
	}

	existing := s.fetchProfile(ctx, ident.ID)
	merged, op := MergeProfile(ident, existing, s.now())
	s.applyWrite(ctx, merged, op)
	s.recordActivity(ctx, ident.ID, "token_exchange", "")

	return SessionResult{
		SessionToken: token,
		User:         domain.NewCanonicalUser(ident, &merged, s.adminEmails),
	}, nil
}

// Login autentica contra el proveedor y asegura que el perfil local exista.
// Los nombres de la respuesta prefieren el valor almacenado (posiblemente
// recién parcheado) y caen a los metadatos de la identidad.
func (s *SessionService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if s.limiter != nil && !s.limiter.Allow(strings.ToLower(strings.TrimSpace(email))) {
		return LoginResult{}, ErrRateLimited
	}

	res, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	existing := s.fetchProfile(ctx, res.Identity.ID)
	merged, op := MergeProfile(res.Identity, existing, s.now())
	s.applyWrite(ctx, merged, op)
	s.recordActivity(ctx, res.Identity.ID, "login", "")

	return LoginResult{
		SessionToken: res.SessionToken,
		Email:        res.Identity.Email,
		FirstName:    strings.TrimSpace(domain.StringValue(merged.FirstName)),
		LastName:     strings.TrimSpace(domain.StringValue(merged.LastName)),
	}, nil
}

// Register crea la cuenta en el proveedor. Con sesión inmediata inserta el
// perfil con los nombres del caller (fuente autoritativa al registrarse).
// Con verificación pendiente no escribe nada: todavía no hay identidad
// verificada sobre la cual clavar el perfil.
func (s *SessionService) Register(ctx context.Context, email, password, firstName, lastName string) (RegisterResult, error) {
	if len(password) < 6 {
		return RegisterResult{}, ErrWeakPassword
	}

	res, err := s.provider.SignUp(ctx, email, password, identity.SignUpAttrs{
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return RegisterResult{}, err
	}

	if res.PendingVerification {
		return RegisterResult{
			Email:                     res.Identity.Email,
			RequiresEmailVerification: true,
		}, nil
	}

	now := s.now()
	profile := domain.LocalProfile{
		ID:        res.Identity.ID,
		Email:     res.Identity.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if v := strings.TrimSpace(firstName); v != "" {
		profile.FirstName = &v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		profile.LastName = &v
	}
	s.applyWrite(ctx, profile, WriteOp{Kind: WriteInsert})
	s.recordActivity(ctx, res.Identity.ID, "register", "")

	return RegisterResult{
		SessionToken: res.SessionToken,
		Email:        res.Identity.Email,
	}, nil
}

// GetProfile combina el perfil almacenado (si existe) con los metadatos de
// la identidad para display. Nunca escribe.
func (s *SessionService) GetProfile(ctx context.Context, token string) (domain.CanonicalUser, error) {
	ident, err := s.provider.VerifyToken(ctx, token)
	if err != nil {
		return domain.CanonicalUser{}, ErrUnauthorized
	}

	existing := s.fetchProfile(ctx, ident.ID)
	merged, _ := MergeProfile(ident, existing, s.now())
	return domain.NewCanonicalUser(ident, &merged, s.adminEmails), nil
}

// ProfilePatch lleva los campos de una actualización de perfil. Punteros
// nil significan "no tocar"; un string vacío explícito limpia el campo.
type ProfilePatch struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Bio       *string `json:"bio"`
	Phone     *string `json:"phone"`
	JobTitle  *string `json:"jobTitle"`
	Company   *string `json:"company"`
	Location  *string `json:"location"`
	Timezone  *string `json:"timezone"`
	Website   *string `json:"website"`
	LinkedIn  *string `json:"linkedin"`
	Twitter   *string `json:"twitter"`
	GitHub    *string `json:"github"`
}

func (p ProfilePatch) fields() map[string]any {
	fields := make(map[string]any)
	set := func(column string, value *string) {
		if value == nil {
			return
		}
		if v := strings.TrimSpace(*value); v != "" {
			fields[column] = v
		} else {
			fields[column] = nil
		}
	}
	// El email local puede divergir del proveedor: se aplica tal cual y la
	// discrepancia queda visible en la respuesta, no se corrige.
	if p.Email != nil {
		fields["email"] = strings.TrimSpace(*p.Email)
	}
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("bio", p.Bio)
	set("phone", p.Phone)
	set("job_title", p.JobTitle)
	set("company", p.Company)
	set("location", p.Location)
	set("timezone", p.Timezone)
	set("website", p.Website)
	set("linkedin", p.LinkedIn)
	set("twitter", p.Twitter)
	set("github", p.GitHub)
	return fields
}

// UpdateProfile aplica solo los campos presentes en el patch. A diferencia
// del backfill, aquí un fallo del store sí se propaga al caller.
func (s *SessionService) UpdateProfile(ctx context.Context, token string, patch ProfilePatch) (domain.CanonicalUser, error) {
	ident, err := s.provider.VerifyToken(ctx, token)
	if err != nil {
		return domain.CanonicalUser{}, ErrUnauthorized
	}

	existing, err := s.profiles.GetByID(ctx, ident.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		merged, _ := MergeProfile(ident, nil, s.now())
		if err := s.profiles.Upsert(ctx, merged); err != nil {
			return domain.CanonicalUser{}, err
		}
		existing = merged
	} else if err != nil {
		return domain.CanonicalUser{}, err
	}

	fields := patch.fields()
	if len(fields) > 0 {
		fields["updated_at"] = s.now()
		if err := s.profiles.UpdateFields(ctx, existing.ID, fields); err != nil {
			return domain.CanonicalUser{}, err
		}
	}

	updated, err := s.profiles.GetByID(ctx, ident.ID)
	if err != nil {
		return domain.CanonicalUser{}, err
	}
	s.recordActivity(ctx, ident.ID, "profile_update", "")
	return domain.NewCanonicalUser(ident, &updated, s.adminEmails), nil
}

// fetchProfile lee el perfil tolerando fallos de store: ausencia o error de
// lectura devuelven nil y la operación sigue con la identidad sola.
func (s *SessionService) fetchProfile(ctx context.Context, id string) *domain.LocalProfile {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("profile fetch failed", zap.String("user_id", id), zap.Error(err))
		}
		return nil
	}
	return &profile
}

// applyWrite ejecuta la escritura computada por el merge. El resultado se
// descarta a propósito: un fallo se registra y no alcanza al caller.
func (s *SessionService) applyWrite(ctx context.Context, profile domain.LocalProfile, op WriteOp) {
	var err error
	switch op.Kind {
	case WriteInsert:
		err = s.profiles.Upsert(ctx, profile)
	case WritePatch:
		err = s.profiles.UpdateFields(ctx, profile.ID, op.Fields)
	default:
		return
	}
	if err != nil {
		s.logger.Warn("profile write failed", zap.String("user_id", profile.ID), zap.Error(err))
	}
}

func (s *SessionService) recordActivity(ctx context.Context, userID, action, detail string) {
	if s.activity == nil {
		return
	}
	event := domain.ActivityEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: s.now(),
	}
	if err := s.activity.Insert(ctx, event); err != nil {
		s.logger.Warn("activity insert failed", zap.String("action", action), zap.Error(err))
	}
}
