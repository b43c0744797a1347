package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/Mahmoudshee/Niru-DRS/internal/repository"
	"github.com/Mahmoudshee/Niru-DRS/internal/testutil"
)

func setupAuth(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewAuthService(repos.User, nil, testutil.JWTSecret, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{
		Name:     "Jane Staff",
		Email:    "jane@test.com",
		Password: "supersecret1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != entity.RoleStaff {
		t.Errorf("expected default staff role, got %v", user.Roles)
	}
	if user.PasswordHash == "supersecret1" {
		t.Error("password stored in plain text")
	}

	// 重复邮箱
	if _, err := svc.Register(ctx, &RegisterRequest{
		Name: "Other", Email: "jane@test.com", Password: "supersecret2",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	// 非法角色
	if _, err := svc.Register(ctx, &RegisterRequest{
		Name: "Bad", Email: "bad@test.com", Password: "supersecret3", Roles: []string{"superuser"},
	}); err == nil {
		t.Error("expected error for invalid role")
	}

	logged, pair, err := svc.Login(ctx, "jane@test.com", "supersecret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("logged in as %s, want %s", logged.ID, user.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected non-empty token pair")
	}

	if _, _, err := svc.Login(ctx, "jane@test.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &RegisterRequest{
		Name: "Bob", Email: "bob@test.com", Password: "supersecret1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, pair, err := svc.Login(ctx, "bob@test.com", "supersecret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	user, newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if user.Email != "bob@test.com" {
		t.Errorf("refreshed as %s", user.Email)
	}
	if newPair.AccessToken == "" {
		t.Error("expected new access token")
	}

	if _, _, err := svc.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("expected ErrInvalidRefresh, got %v", err)
	}
}
