package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity quién hace la petición: usuario, empresa (tenant) y rol.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string
}

type claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Signer firma y verifica tokens HS256 de un emisor.
// Issuer vacío desactiva la verificación del claim iss.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

var (
	ErrEmptySecret = errors.New("jwt: secret vacío")
	ErrNoSubject   = errors.New("jwt: token sin usuario o empresa")
)

// NewSigner crea un Signer. ttl se usa al firmar.
func NewSigner(secret, issuer string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Sign emite un token para id. El usuario va en el claim sub.
func (s *Signer) Sign(id Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		CompanyID: id.CompanyID,
		Role:      id.Role,
	})
	return token.SignedString(s.secret)
}

// Verify valida firma, expiración y emisor, y devuelve la identidad.
// El rol puede venir vacío; decidir qué hacer con eso es del llamador.
func (s *Signer) Verify(tokenString string) (*Identity, error) {
	if len(s.secret) == 0 {
		return nil, ErrEmptySecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	var c claims
	if _, err := jwt.ParseWithClaims(tokenString, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...); err != nil {
		return nil, err
	}
	if c.Subject == "" || c.CompanyID == "" {
		return nil, ErrNoSubject
	}
	return &Identity{UserID: c.Subject, CompanyID: c.CompanyID, Role: c.Role}, nil
}
