package domain

import (
	"strings"
	"time"
)

// CanonicalUser es la vista única que reciben los clientes: identidad del
// proveedor combinada con el perfil local. Los nombres JSON siguen el
// contrato del API (camelCase).
type CanonicalUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	FullName  string    `json:"fullName"`
	Bio       string    `json:"bio,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	JobTitle  string    `json:"jobTitle,omitempty"`
	Company   string    `json:"company,omitempty"`
	Location  string    `json:"location,omitempty"`
	Timezone  string    `json:"timezone,omitempty"`
	Website   string    `json:"website,omitempty"`
	LinkedIn  string    `json:"linkedin,omitempty"`
	Twitter   string    `json:"twitter,omitempty"`
	GitHub    string    `json:"github,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FullName deriva el nombre a mostrar: nombre y apellido cuando ambos
// existen, si no la parte local del email (antes de la @).
func FullName(firstName, lastName, email string) string {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	if first != "" && last != "" {
		return first + " " + last
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return ""
}

// NewCanonicalUser combina la identidad externa con el perfil local.
// El email del proveedor manda en la respuesta; los nombres prefieren el
// valor almacenado y caen a los metadatos de identidad.
func NewCanonicalUser(identity ExternalIdentity, profile *LocalProfile, adminEmails map[string]struct{}) CanonicalUser {
	email := identity.Email
	if email == "" && profile != nil {
		email = profile.Email
	}

	firstName := strings.TrimSpace(identity.FirstName)
	lastName := strings.TrimSpace(identity.LastName)
	user := CanonicalUser{
		ID:        identity.ID,
		Email:     email,
		CreatedAt: identity.CreatedAt,
	}
	if profile != nil {
		if v := strings.TrimSpace(StringValue(profile.FirstName)); v != "" {
			firstName = v
		}
		if v := strings.TrimSpace(StringValue(profile.LastName)); v != "" {
			lastName = v
		}
		user.Bio = StringValue(profile.Bio)
		user.Phone = StringValue(profile.Phone)
		user.JobTitle = StringValue(profile.JobTitle)
		user.Company = StringValue(profile.Company)
		user.Location = StringValue(profile.Location)
		user.Timezone = StringValue(profile.Timezone)
		user.Website = StringValue(profile.Website)
		user.LinkedIn = StringValue(profile.LinkedIn)
		user.Twitter = StringValue(profile.Twitter)
		user.GitHub = StringValue(profile.GitHub)
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.FullName = FullName(firstName, lastName, email)
	user.IsAdmin = isAdminEmail(email, adminEmails)
	return user
}

func isAdminEmail(email string, adminEmails map[string]struct{}) bool {
	if email == "" || len(adminEmails) == 0 {
		return false
	}
	_, ok := adminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
