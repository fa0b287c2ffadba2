package jwt_test

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Compras-api/pkg/jwt"
)

var gerente = jwt.Identity{UserID: "u1", CompanyID: "c1", Role: "gerente"}

func TestSignVerify_DevuelveIdentidad(t *testing.T) {
	s := jwt.NewSigner("secreto", "compras-api", 5*time.Minute)
	tok, err := s.Sign(gerente)
	require.NoError(t, err)

	id, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, gerente, *id)
}

func TestVerify_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.NewSigner("secreto", "", time.Minute).Sign(gerente)
	require.NoError(t, err)

	_, err = jwt.NewSigner("otro", "", time.Minute).Verify(tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenSignatureInvalid), err)
}

func TestVerify_Expirado(t *testing.T) {
	s := jwt.NewSigner("secreto", "", -time.Minute)
	tok, err := s.Sign(gerente)
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired), err)
}

func TestVerify_OtroEmisor(t *testing.T) {
	tok, err := jwt.NewSigner("secreto", "otro-sistema", time.Minute).Sign(gerente)
	require.NoError(t, err)

	_, err = jwt.NewSigner("secreto", "compras-api", time.Minute).Verify(tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenInvalidIssuer), err)
}

func TestVerify_SinEmpresa(t *testing.T) {
	s := jwt.NewSigner("secreto", "", time.Minute)
	tok, err := s.Sign(jwt.Identity{UserID: "u1", Role: "admin"})
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrNoSubject)
}

func TestSign_SecretVacio(t *testing.T) {
	_, err := jwt.NewSigner("", "", time.Minute).Sign(gerente)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
