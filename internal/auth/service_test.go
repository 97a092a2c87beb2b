package auth

import (
	"context"
	"testing"
	"time"

	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/internal/users"
	pkgAuth "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/auth"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/config"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/db/models"
	pkgerrors "github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/errors"
	"github.com/danyakorkmaz/Ecommerce-marmarakoyluce/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryUserRepo struct {
	byEmail map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: map[string]*models.User{}}
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memoryUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := &models.User{
		ID:                       uuid.New(),
		Name:                     dto.Name,
		Surname:                  dto.Surname,
		Email:                    dto.Email,
		PasswordHash:             dto.PasswordHash,
		Gender:                   dto.Gender,
		GetEmailNotificationFlag: dto.GetEmailNotificationFlag,
		AdminFlag:                dto.AdminFlag,
		CreatedAt:                time.Now(),
		UpdatedAt:                time.Now(),
	}
	r.byEmail[dto.Email] = user
	return user, nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-that-is-long-enough",
		Issuer:            "koyluce-test",
		ExpirationMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	// Weak parameters keep the hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *memoryUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Mehmet",
		Surname:  "Yılmaz",
		Email:    "mehmet@example.com",
		Password: "gizli-parola-1",
		Gender:   "erkek",
	}
}

func TestRegisterNormalizesEmailAndMintsToken(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestService(t, repo)

	input := registerInput()
	input.Email = "  Mehmet@Example.COM "
	result, err := svc.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Email != "mehmet@example.com" {
		t.Fatalf("email not normalized: %q", result.User.Email)
	}
	if _, ok := repo.byEmail["mehmet@example.com"]; !ok {
		t.Fatal("user not stored under normalized email")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("minted token does not parse: %v", err)
	}
	if claims.Email != "mehmet@example.com" {
		t.Fatalf("token email claim = %q", claims.Email)
	}
	if claims.AdminFlag {
		t.Fatal("fresh registration must not be admin")
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := repo.byEmail["mehmet@example.com"]
	if stored.PasswordHash == "gizli-parola-1" {
		t.Fatal("password stored in plain text")
	}
	match, err := security.VerifyPassword("gizli-parola-1", stored.PasswordHash)
	if err != nil || !match {
		t.Fatalf("stored hash does not verify: match=%v err=%v", match, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register(context.Background(), registerInput())
	if !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginSucceedsWithCorrectPassword(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "MEHMET@example.com",
		Password: "gizli-parola-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("login must return a token")
	}
}

func TestLoginFailuresAreOpaque(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestService(t, repo)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	// Wrong password and unknown account must be indistinguishable.
	_, wrongPass := svc.Login(context.Background(), LoginInput{Email: "mehmet@example.com", Password: "yanlış"})
	_, unknown := svc.Login(context.Background(), LoginInput{Email: "yok@example.com", Password: "gizli-parola-1"})

	for _, err := range []error{wrongPass, unknown} {
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
		if err.Error() != wrongPass.Error() {
			t.Fatalf("login failure messages differ: %q vs %q", err.Error(), wrongPass.Error())
		}
	}
}
