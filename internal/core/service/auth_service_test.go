package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byUsername map[string]*domain.User
	byID       map[string]*domain.User
	nextID     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byUsername: make(map[string]*domain.User),
		byID:       make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, exists := r.byUsername[u.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *u
	r.nextID++
	clone.ID = fmt.Sprintf("user_%d", r.nextID)
	r.byUsername[clone.Username] = &clone
	r.byID[clone.ID] = &clone
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) seed(u domain.User) {
	r.byUsername[u.Username] = &u
	r.byID[u.ID] = &u
}

// ---------------------------------------------------------------------------

func testRegister(username, role, companyID string) ports.RegisterInput {
	return ports.RegisterInput{
		Username:  username,
		Password:  "hunter2-longer",
		Role:      role,
		CompanyID: companyID,
	}
}

func TestRegisterAndLogin_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), testRegister("alice", domain.RoleAdmin, "comp_1"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "hunter2-longer" {
		t.Fatal("password must be hashed, not stored verbatim")
	}

	token, logged, err := svc.Login(context.Background(), "alice", "hunter2-longer")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Username != "alice" {
		t.Fatalf("logged in as %q", logged.Username)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	if claims["role"] != domain.RoleAdmin || claims["company_id"] != "comp_1" {
		t.Fatalf("claims = %v", claims)
	}
	if _, ok := claims["place_ids"]; !ok {
		t.Fatal("token must carry place_ids")
	}
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "s", time.Hour)
	if _, err := svc.Register(context.Background(), testRegister("bob", "root", "comp_1")); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_NonSuperadminNeedsCompany(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "s", time.Hour)

	if _, err := svc.Register(context.Background(), testRegister("carol", domain.RoleManager, "")); err != domain.ErrNoCompanyAssigned {
		t.Fatalf("expected ErrNoCompanyAssigned, got %v", err)
	}
	if _, err := svc.Register(context.Background(), testRegister("root", domain.RoleSuperadmin, "")); err != nil {
		t.Fatalf("superadmin without company must register: %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "s", time.Hour)
	if _, err := svc.Register(context.Background(), testRegister("dave", domain.RoleManager, "comp_1")); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "dave", "wrong-password"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody", "whatever"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
