package service

import (
	"testing"
	"time"

	"github.com/Shail-ja/Project-syncify/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestMergeProfile_InsertFromMetadata(t *testing.T) {
	now := time.Now().UTC()
	identity := domain.ExternalIdentity{
		ID:        "id-1",
		Email:     "ada@example.com",
		FirstName: "  Ada ",
		LastName:  "Lovelace",
	}

	profile, op := MergeProfile(identity, nil, now)
	if op.Kind != WriteInsert {
		t.Fatalf("expected insert, got %v", op.Kind)
	}
	if profile.ID != "id-1" || profile.Email != "ada@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if domain.StringValue(profile.FirstName) != "Ada" {
		t.Fatalf("expected trimmed first name, got %q", domain.StringValue(profile.FirstName))
	}
	if domain.StringValue(profile.LastName) != "Lovelace" {
		t.Fatalf("expected last name, got %q", domain.StringValue(profile.LastName))
	}
}

func TestMergeProfile_InsertBlankMetadataStaysNil(t *testing.T) {
	identity := domain.ExternalIdentity{ID: "id-1", Email: "a@b.com", FirstName: "   "}

	profile, op := MergeProfile(identity, nil, time.Now().UTC())
	if op.Kind != WriteInsert {
		t.Fatalf("expected insert, got %v", op.Kind)
	}
	if profile.FirstName != nil || profile.LastName != nil {
		t.Fatalf("expected nil names, got %+v", profile)
	}
}

func TestMergeProfile_NeverOverwritesHumanNames(t *testing.T) {
	existing := &domain.LocalProfile{
		ID:        "id-1",
		Email:     "a@b.com",
		FirstName: strPtr("Grace"),
		LastName:  strPtr("Hopper"),
	}
	identity := domain.ExternalIdentity{ID: "id-1", FirstName: "Other", LastName: "Name"}

	merged, op := MergeProfile(identity, existing, time.Now().UTC())
	if op.Kind != WriteNoOp {
		t.Fatalf("expected noop, got %v", op.Kind)
	}
	if domain.StringValue(merged.FirstName) != "Grace" || domain.StringValue(merged.LastName) != "Hopper" {
		t.Fatalf("existing names changed: %+v", merged)
	}
}

func TestMergeProfile_BackfillsOnlyBlankFields(t *testing.T) {
	now := time.Now().UTC()
	existing := &domain.LocalProfile{
		ID:        "id-1",
		FirstName: strPtr("Grace"),
		LastName:  nil,
	}
	identity := domain.ExternalIdentity{ID: "id-1", FirstName: "Other", LastName: " Hopper "}

	merged, op := MergeProfile(identity, existing, now)
	if op.Kind != WritePatch {
		t.Fatalf("expected patch, got %v", op.Kind)
	}
	if domain.StringValue(merged.FirstName) != "Grace" {
		t.Fatalf("first name overwritten: %+v", merged)
	}
	if domain.StringValue(merged.LastName) != "Hopper" {
		t.Fatalf("expected backfilled last name, got %q", domain.StringValue(merged.LastName))
	}
	if _, ok := op.Fields["first_name"]; ok {
		t.Fatalf("first_name staged for patch: %+v", op.Fields)
	}
	if op.Fields["last_name"] != "Hopper" {
		t.Fatalf("expected last_name in patch, got %+v", op.Fields)
	}
	if op.Fields["updated_at"] != now {
		t.Fatalf("expected updated_at stamp")
	}
}

func TestMergeProfile_BlankMetadataDoesNotStage(t *testing.T) {
	existing := &domain.LocalProfile{ID: "id-1"}
	identity := domain.ExternalIdentity{ID: "id-1", FirstName: "  ", LastName: ""}

	_, op := MergeProfile(identity, existing, time.Now().UTC())
	if op.Kind != WriteNoOp {
		t.Fatalf("expected noop, got %v", op.Kind)
	}
}
