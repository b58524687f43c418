package domain

import "time"

// ActivityEvent registra una acción de autenticación para auditoría.
// Las escrituras son best-effort; perder un evento nunca falla la operación.
type ActivityEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
