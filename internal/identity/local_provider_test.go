package identity

import (
	"context"
	"testing"
	"time"
)

func TestLocalProvider_SignUpSignInVerify(t *testing.T) {
	p := NewLocalProvider("secret", time.Hour, false)
	ctx := context.Background()

	signUp, err := p.SignUp(ctx, "Ada@Example.com", "secret1", SignUpAttrs{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if signUp.PendingVerification || signUp.SessionToken == "" {
		t.Fatalf("expected immediate session, got %+v", signUp)
	}

	ident, err := p.VerifyToken(ctx, signUp.SessionToken)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if ident.Email != "ada@example.com" || ident.FirstName != "Ada" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if ident.ID != signUp.Identity.ID {
		t.Fatalf("identity id changed between sign up and verify")
	}

	signIn, err := p.SignIn(ctx, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if signIn.Identity.ID != signUp.Identity.ID {
		t.Fatalf("sign in returned a different identity")
	}
}

func TestLocalProvider_InvalidCredentials(t *testing.T) {
	p := NewLocalProvider("secret", time.Hour, false)
	ctx := context.Background()

	if _, err := p.SignIn(ctx, "missing@example.com", "pw"); KindOf(err) != KindInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	if _, err := p.SignUp(ctx, "a@b.com", "secret1", SignUpAttrs{}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := p.SignIn(ctx, "a@b.com", "wrong"); KindOf(err) != KindInvalidCredentials {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
}

func TestLocalProvider_DuplicateSignUpRejected(t *testing.T) {
	p := NewLocalProvider("secret", time.Hour, false)
	ctx := context.Background()

	if _, err := p.SignUp(ctx, "a@b.com", "secret1", SignUpAttrs{}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := p.SignUp(ctx, "A@B.com", "secret1", SignUpAttrs{}); KindOf(err) != KindRejected {
		t.Fatalf("expected rejection for duplicate email, got %v", err)
	}
}

func TestLocalProvider_WeakPassword(t *testing.T) {
	p := NewLocalProvider("secret", time.Hour, false)
	if _, err := p.SignUp(context.Background(), "a@b.com", "12345", SignUpAttrs{}); KindOf(err) != KindWeakPassword {
		t.Fatalf("expected weak password, got %v", err)
	}
}

func TestLocalProvider_ConfirmationFlow(t *testing.T) {
	p := NewLocalProvider("secret", time.Hour, true)
	ctx := context.Background()

	signUp, err := p.SignUp(ctx, "a@b.com", "secret1", SignUpAttrs{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if !signUp.PendingVerification || signUp.SessionToken != "" {
		t.Fatalf("expected pending verification, got %+v", signUp)
	}

	if _, err := p.SignIn(ctx, "a@b.com", "secret1"); KindOf(err) != KindInvalidCredentials {
		t.Fatalf("expected sign in blocked before confirmation, got %v", err)
	}

	token, err := p.Confirm("a@b.com")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := p.VerifyToken(ctx, token); err != nil {
		t.Fatalf("verify confirmed token: %v", err)
	}
	if _, err := p.SignIn(ctx, "a@b.com", "secret1"); err != nil {
		t.Fatalf("sign in after confirm: %v", err)
	}
}

func TestLocalProvider_RejectsForeignTokens(t *testing.T) {
	p := NewLocalProvider("secret", time.Hour, false)
	other := NewLocalProvider("other-secret", time.Hour, false)

	signUp, err := other.SignUp(context.Background(), "a@b.com", "secret1", SignUpAttrs{})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if _, err := p.VerifyToken(context.Background(), signUp.SessionToken); KindOf(err) != KindInvalidToken {
		t.Fatalf("expected invalid token, got %v", err)
	}

	if _, err := p.VerifyToken(context.Background(), ""); KindOf(err) != KindInvalidToken {
		t.Fatalf("expected invalid token for empty input, got %v", err)
	}
}
