package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rsg28/TuSalud-Backend/internal/config"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

func testAuthService(repo *stubUsuarioRepo) AuthService {
	return NewAuthService(repo, &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	})
}

func seedUsuario(repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.Usuario{
		Username:       username,
		Email:          username + "@tusalud.pe",
		NombreCompleto: "Usuario " + username,
		PasswordHash:   string(hash),
		Rol:            rol,
		Activo:         true,
	}
	_ = repo.Create(context.Background(), u)
	return u
}

func TestLoginEmiteTokensConClaims(t *testing.T) {
	repo := newStubUsuarioRepo()
	usuario := seedUsuario(repo, "vendedor1", "secreta123", model.RolVendedor)
	svc := testAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor1", Password: "secreta123"})
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, usuario.Username, resp.User.Username)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, usuario.ID.String(), claims["user_id"])
	assert.Equal(t, model.RolVendedor, claims["rol"])
}

func TestLoginPasswordIncorrecta(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(repo, "vendedor1", "secreta123", model.RolVendedor)
	svc := testAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "vendedor1", Password: "otra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credenciales invalidas")
}

func TestLoginPorEmail(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(repo, "cliente1", "secreta123", model.RolCliente)
	svc := testAuthService(repo)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cliente1@tusalud.pe", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "cliente1", resp.User.Username)
}

func TestLoginUsuarioInactivo(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(repo, "exvendedor", "secreta123", model.RolVendedor)
	u.Activo = false
	svc := testAuthService(repo)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "exvendedor", Password: "secreta123"})
	require.Error(t, err)
}

func TestRefreshDevuelveNuevosTokens(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(repo, "manager1", "secreta123", model.RolManager)
	svc := testAuthService(repo)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "manager1", Password: "secreta123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "manager1", resp.User.Username)
}

func TestRefreshTokenInvalido(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := testAuthService(repo)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh token invalido")
}

func TestRegistrarSiempreCreaCliente(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := testAuthService(repo)

	resp, err := svc.Registrar(context.Background(), dto.RegisterRequest{
		Username:       "nuevo",
		Email:          "nuevo@empresa.pe",
		Password:       "secreta123",
		NombreCompleto: "Nuevo Usuario",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolCliente, resp.Rol)
	assert.True(t, resp.Activo)
}

func TestRegistrarUsernameDuplicado(t *testing.T) {
	repo := newStubUsuarioRepo()
	seedUsuario(repo, "nuevo", "secreta123", model.RolCliente)
	svc := testAuthService(repo)

	_, err := svc.Registrar(context.Background(), dto.RegisterRequest{
		Username:       "nuevo",
		Email:          "otro@empresa.pe",
		Password:       "secreta123",
		NombreCompleto: "Otro",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya registrado")
}

func TestCrearUsuarioConRol(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := testAuthService(repo)

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username:       "vendedor2",
		Email:          "vendedor2@tusalud.pe",
		Password:       "secreta123",
		NombreCompleto: "Vendedor Dos",
		Rol:            model.RolVendedor,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolVendedor, resp.Rol)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	repo := newStubUsuarioRepo()
	u := seedUsuario(repo, "vendedor3", "secreta123", model.RolVendedor)
	svc := testAuthService(repo)

	require.NoError(t, svc.DesactivarUsuario(context.Background(), u.ID))
	activos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	require.NoError(t, svc.ReactivarUsuario(context.Background(), u.ID))
	activos, err = svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)
}
