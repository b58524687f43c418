package domain

import "time"

// LocalProfile es el registro propio del sistema, 1:1 con la identidad
// externa (ID es el identificador del proveedor, nunca se reutiliza).
// Los atributos de perfil son opcionales; nil significa "sin valor".
type LocalProfile struct {
	ID        string
	Email     string
	FirstName *string
	LastName  *string
	Bio       *string
	Phone     *string
	JobTitle  *string
	Company   *string
	Location  *string
	Timezone  *string
	Website   *string
	LinkedIn  *string
	Twitter   *string
	GitHub    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StringValue devuelve el valor apuntado o cadena vacía.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
