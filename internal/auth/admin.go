package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/abhishek622/portfolio/pkg/model"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AdminAuthenticator checks the single configured admin account and issues
// tokens for it.
type AdminAuthenticator struct {
	username     string
	passwordHash string
	maker        *JWTMaker
	ttl          time.Duration
}

func NewAdminAuthenticator(username, passwordHash string, maker *JWTMaker, ttl time.Duration) *AdminAuthenticator {
	return &AdminAuthenticator{
		username:     username,
		passwordHash: passwordHash,
		maker:        maker,
		ttl:          ttl,
	}
}

func (a *AdminAuthenticator) Login(username, password string) (*model.AdminLoginRes, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// bcrypt runs even for an unknown username so both failures take as long.
	passErr := ComparePassword(a.passwordHash, password)
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := a.maker.CreateToken(a.username, a.ttl)
	if err != nil {
		return nil, err
	}
	return &model.AdminLoginRes{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (a *AdminAuthenticator) Verify(token string) (*AdminClaims, error) {
	return a.maker.VerifyToken(token)
}
