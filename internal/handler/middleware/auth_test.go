//go:build unit

package middleware_test

import (
	"net/http"
	"testing"

	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/handler/middleware"
	"popularity-engine/internal/pkg/config"
	"popularity-engine/internal/pkg/jwt"
	"popularity-engine/internal/usecase"
	"popularity-engine/tests/common/authtest"
	"popularity-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	jwt    *authtest.JWTHelper
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()
	s.jwt = authtest.NewJWTHelper(cfg.JWT)

	service, err := jwt.NewService(cfg.JWT)
	s.Require().NoError(err)
	validator := usecase.NewTokenValidator(service)
	auth := middleware.NewAuthMiddleware(validator)

	s.router = gin.New()
	whoami := func(c *gin.Context) {
		id, _ := middleware.GetUserID(c)
		role, _ := middleware.GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": string(role)})
	}
	s.router.GET("/me", auth.RequireAuth(), whoami)
	s.router.GET("/admin", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleAdmin), whoami)
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) TestRequireAuth() {
	s.Run("success: caller identity is placed in the context", func() {
		userID, token := s.jwt.NewSession(s.T(), user.RoleViewer)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)

		var body struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(userID.String(), body.UserID)
		s.Equal("viewer", body.Role)
	})

	s.Run("error: missing token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: expired token", func() {
		token := s.jwt.CreateExpiredToken(s.T(), uuid.New(), user.RoleViewer)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: token signed with another secret", func() {
		other := authtest.NewJWTHelper(config.JWTConfig{Secret: "someone-else", Duration: "1h", Issuer: "accounts-test"})
		token := other.GenerateToken(s.T(), uuid.New(), user.RoleAdmin)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: token from another issuer", func() {
		token := s.jwt.WithIssuer("accounts-staging").GenerateToken(s.T(), uuid.New(), user.RoleViewer)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: unknown role claim", func() {
		token := s.jwt.GenerateToken(s.T(), uuid.New(), user.Role("superuser"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func (s *AuthMiddlewareTestSuite) TestRequireRoleAtLeast() {
	testCases := []struct {
		role   user.Role
		status int
	}{
		{role: user.RoleViewer, status: http.StatusForbidden},
		{role: user.RoleOperator, status: http.StatusForbidden},
		{role: user.RoleAdmin, status: http.StatusOK},
	}
	for _, tc := range testCases {
		s.Run(string(tc.role), func() {
			_, token := s.jwt.NewSession(s.T(), tc.role)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin", nil, token)
			s.Equal(tc.status, rec.Code)
		})
	}
}
