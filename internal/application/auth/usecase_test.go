package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/litethinking-inventario/internal/application/auth"
	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/application/usecase"
	"github.com/jhoicas/litethinking-inventario/internal/domain"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/litethinking-inventario/pkg/jwt"
)

const secret = "test-secret"

func newAuth() (*auth.AuthUseCase, *usecase.UserUseCase) {
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "test"})
	return uc, usecase.NewUserUseCase(store.Users())
}

func TestRegister_PrimerUsuarioEsAdministrador(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	first, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Admin@LiteThinking.com", Password: "supersecreto", Name: "Admin"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleAdministrator), first.Role)
	assert.Equal(t, "admin@litethinking.com", first.Email)

	second, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "viewer@litethinking.com", Password: "supersecreto"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleReadOnlyViewer), second.Role)
	assert.Equal(t, "viewer@litethinking.com", second.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "VIEWER@litethinking.com", Password: "supersecreto"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@litethinking.com", Password: "corta"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "y@litethinking.com", Password: "supersecreto", CompanyID: "00000000-0000-0000-0000-000000000001"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogin_TokenConRolTipado(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@litethinking.com", Password: "supersecreto"})
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@litethinking.com", Password: "supersecreto"})
	require.NoError(t, err)
	require.NotNil(t, out.User.LastLoginAt)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "administrador", claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@litethinking.com", Password: "incorrecta"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@litethinking.com", Password: "supersecreto"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()
	admin, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@litethinking.com", Password: "supersecreto"})
	require.NoError(t, err)
	viewer, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "viewer@litethinking.com", Password: "supersecreto"})
	require.NoError(t, err)

	_, err = users.Deactivate(ctx, admin.ID, admin.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	out, err := users.Deactivate(ctx, admin.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Status)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "viewer@litethinking.com", Password: "supersecreto"})
	assert.True(t, errors.Is(err, domain.ErrInactive))

	_, err = users.Activate(ctx, viewer.ID)
	require.NoError(t, err)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "viewer@litethinking.com", Password: "supersecreto"})
	assert.NoError(t, err)
}
