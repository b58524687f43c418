package service

import (
	"strings"
	"time"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

// WriteKind indica la escritura mínima que requiere el perfil tras el merge.
type WriteKind int

const (
	WriteNoOp WriteKind = iota
	WriteInsert
	WritePatch
)

// WriteOp describe la escritura a ejecutar contra el store de perfiles.
type WriteOp struct {
	Kind   WriteKind
	Fields map[string]any
}

// MergeProfile reconcilia una identidad externa con el perfil local.
// Sin perfil existente construye uno nuevo (Insert). Con perfil existente
// solo rellena nombres nulos desde los metadatos del proveedor (Patch),
// nunca pisa un valor ya escrito por un humano. El email almacenado no se
// corrige aquí: las discrepancias se toleran y salen solo en la respuesta.
func MergeProfile(identity domain.ExternalIdentity, existing *domain.LocalProfile, now time.Time) (domain.LocalProfile, WriteOp) {
	first := strings.TrimSpace(identity.FirstName)
	last := strings.TrimSpace(identity.LastName)

	if existing == nil {
		profile := domain.LocalProfile{
			ID:        identity.ID,
			Email:     identity.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if first != "" {
			profile.FirstName = &first
		}
		if last != "" {
			profile.LastName = &last
		}
		return profile, WriteOp{Kind: WriteInsert}
	}

	result := *existing
	fields := make(map[string]any)
	if isBlank(existing.FirstName) && first != "" {
		result.FirstName = &first
		fields["first_name"] = first
	}
	if isBlank(existing.LastName) && last != "" {
		result.LastName = &last
		fields["last_name"] = last
	}
	if len(fields) == 0 {
		return result, WriteOp{Kind: WriteNoOp}
	}

	result.UpdatedAt = now
	fields["updated_at"] = now
	return result, WriteOp{Kind: WritePatch, Fields: fields}
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
