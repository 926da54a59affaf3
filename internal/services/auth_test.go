package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wsanec-lang/sencoten-backend/internal/repos"
	"github.com/wsanec-lang/sencoten-backend/internal/types"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	return newAuthServiceWithSecret(t, "test-secret")
}

func newAuthServiceWithSecret(t *testing.T, secret string) AuthService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return NewAuthService(gdb, log,
		repos.NewUserRepo(gdb, log),
		repos.NewUserTokenRepo(gdb, log),
		secret, time.Minute, time.Hour)
}

func TestLoginAndTokenRoundtrip(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "teacher", "teacher123", "Ms. Paul", types.RoleTeacher)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	result, err := svc.Login(ctx, "teacher", "teacher123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("login must return both tokens")
	}
	if result.Role != types.RoleTeacher || result.DisplayName != "Ms. Paul" {
		t.Fatalf("login result: role=%q display_name=%q", result.Role, result.DisplayName)
	}

	actor, err := svc.ActorFromToken(result.AccessToken)
	if err != nil {
		t.Fatalf("actor from token: %v", err)
	}
	if actor.UserID != user.ID {
		t.Fatalf("actor id: got=%s want=%s", actor.UserID, user.ID)
	}
	if actor.Role != types.RoleTeacher || actor.DisplayName != "Ms. Paul" {
		t.Fatalf("actor: role=%q display_name=%q", actor.Role, actor.DisplayName)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "teacher", "teacher123", "Ms. Paul", types.RoleTeacher); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := svc.Login(ctx, "teacher", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got=%v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "teacher123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got=%v", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty credentials: got=%v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "teacher", "teacher123", "Ms. Paul", types.RoleTeacher); err != nil {
		t.Fatalf("create user: %v", err)
	}
	first, err := svc.Login(ctx, "teacher", "teacher123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token must rotate")
	}

	// The old refresh token is spent.
	if _, err := svc.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("spent refresh token: got=%v", err)
	}
	if _, err := svc.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage refresh token: got=%v", err)
	}
}

func TestLogoutInvalidatesRefreshTokens(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "teacher", "teacher123", "Ms. Paul", types.RoleTeacher)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	result, err := svc.Login(ctx, "teacher", "teacher123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout: got=%v", err)
	}
}

func TestActorFromTokenRejectsForgeries(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.ActorFromToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("malformed token: got=%v", err)
	}

	// A token signed under a different secret does not validate here.
	other := newAuthServiceWithSecret(t, "other-secret")
	if _, err := other.CreateUser(ctx, "teacher", "teacher123", "Ms. Paul", types.RoleTeacher); err != nil {
		t.Fatalf("create user: %v", err)
	}
	foreign, err := other.Login(ctx, "teacher", "teacher123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.ActorFromToken(foreign.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("cross-secret token: got=%v", err)
	}
}

func TestEnsureBootstrapUserOnlyOnEmptyTable(t *testing.T) {
	t.Parallel()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	userRepo := repos.NewUserRepo(gdb, log)
	svc := NewAuthService(gdb, log, userRepo, repos.NewUserTokenRepo(gdb, log),
		"test-secret", time.Minute, time.Hour)
	ctx := context.Background()

	if err := svc.EnsureBootstrapUser(ctx, "teacher", "teacher123", "Teacher"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := svc.Login(ctx, "teacher", "teacher123"); err != nil {
		t.Fatalf("login as bootstrap user: %v", err)
	}

	// A second call must not clobber existing accounts.
	if err := svc.EnsureBootstrapUser(ctx, "other", "pw", "Other"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if _, err := svc.Login(ctx, "other", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bootstrap ran on a non-empty table: got=%v", err)
	}
}
