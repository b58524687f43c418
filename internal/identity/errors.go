package identity

import "errors"

// Kind clasifica los fallos del proveedor dentro de la taxonomía propia.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidToken: el proveedor rechazó el token o estaba vacío.
	KindInvalidToken
	// KindInvalidCredentials: email/password inválidos o sin sesión.
	KindInvalidCredentials
	// KindWeakPassword: el password no cumple el mínimo del proveedor.
	KindWeakPassword
	// KindProviderConfig: defecto de despliegue del proveedor (trigger o
	// storage roto), no un error del usuario.
	KindProviderConfig
	// KindRejected: rechazo genérico del registro.
	KindRejected
)

// Error normaliza un fallo del proveedor: clase, mensaje visible y código
// original cuando existe.
type Error struct {
	Kind    Kind
	Message string
	Code    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindInvalidToken:
		return "invalid or expired token"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindWeakPassword:
		return "password too weak"
	case KindProviderConfig:
		return "identity provider misconfigured"
	case KindRejected:
		return "registration rejected"
	}
	return "identity provider error"
}

func newError(kind Kind, message, code string) *Error {
	return &Error{Kind: kind, Message: message, Code: code}
}

// KindOf devuelve la clase del error o KindUnknown si no pertenece a la
// taxonomía.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}
