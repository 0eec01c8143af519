//go:build unit || e2e

package authtest

import (
	"testing"

	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/pkg/config"
	"popularity-engine/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens the way the account service would for the configured secret.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) sign(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, role user.Role) string {
	t.Helper()
	service, err := jwt.NewService(cfg)
	require.NoError(t, err)
	token, err := service.GenerateToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	return h.sign(t, h.cfg, userID, role)
}

// NewSession mints a token for a fresh owner id.
func (h *JWTHelper) NewSession(t *testing.T, role user.Role) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	return userID, h.GenerateToken(t, userID, role)
}

// CreateExpiredToken returns a token that expired well past any validation leeway.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	cfg := h.cfg
	cfg.Duration = "-10m"
	return h.sign(t, cfg, userID, role)
}

// WithIssuer returns a helper whose tokens claim another issuer.
func (h *JWTHelper) WithIssuer(issuer string) *JWTHelper {
	cfg := h.cfg
	cfg.Issuer = issuer
	return &JWTHelper{cfg: cfg}
}
