package domain

import "time"

// ExternalIdentity es la identidad normalizada que entrega el proveedor
// al validar un token o iniciar sesión. Contiene hechos del proveedor,
// no decisiones; se reconstruye en cada request y nunca se persiste tal cual.
type ExternalIdentity struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}
