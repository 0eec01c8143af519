//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/handler/api"
	resdto "popularity-engine/internal/handler/dto/response"
	"popularity-engine/internal/usecase/commands"
	"popularity-engine/tests/common/builder"
	"popularity-engine/tests/common/httptest"
	"popularity-engine/tests/common/testutil"
	commandsmock "popularity-engine/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockCoupons   *commandsmock.MockCouponCommands
	mockRecompute *commandsmock.MockRecomputeCommands
	handler       *api.AdminHandler
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCoupons = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockRecompute = commandsmock.NewMockRecomputeCommands(s.mockCtrl)
	s.handler = api.NewAdminHandler(s.mockCoupons, s.mockRecompute)

	s.router.POST("/admin/coupons", s.handler.IssueCoupon)
	s.router.POST("/admin/:kind/recompute", s.handler.Recompute)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) TestIssueCoupon() {
	b := builder.NewCouponBuilder().WithKind(boost.Kind30Day).With(func(b *builder.CouponBuilder) {
		b.Source = coupon.SourcePurchase
	})
	reqBody := b.BuildIssueRequestDTO()

	s.Run("success: 201 with the issued coupon", func() {
		issued := b.BuildDomain()
		s.mockCoupons.EXPECT().
			Issue(gomock.Any(), commands.IssueRequest{OwnerID: b.OwnerID, Kind: boost.Kind30Day, Source: coupon.SourcePurchase}).
			Return(issued, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/coupons", reqBody, "")

		var body resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(issued.ID().String(), body.ID)
		s.Equal(b.OwnerID.String(), body.OwnerID)
		s.Equal("30day", body.Kind)
		s.Equal("purchase", body.Source)
		s.Require().NotNil(body.ExpiresAt)
		s.Equal(b.IssuedAt.Add(30*24*time.Hour).Unix(), *body.ExpiresAt)
	})

	s.Run("success: source defaults to grant", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("source", nil))
		s.mockCoupons.EXPECT().
			Issue(gomock.Any(), commands.IssueRequest{OwnerID: b.OwnerID, Kind: boost.Kind30Day, Source: coupon.SourceGrant}).
			Return(b.BuildDomain(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/coupons", requestMap, "")
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing owner_id", mutate: testutil.Field("owner_id", nil)},
			{name: "missing kind", mutate: testutil.Field("kind", nil)},
			{name: "unknown kind", mutate: testutil.Field("kind", "1day")},
			{name: "unknown source", mutate: testutil.Field("source", "stolen")},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/coupons", requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: 500 when the ledger fails", func() {
		s.mockCoupons.EXPECT().Issue(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/coupons", reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Failed to issue coupon")
	})
}

func (s *AdminHandlerTestSuite) TestRecompute() {
	s.Run("success: reports counts", func() {
		s.mockRecompute.EXPECT().RecomputeKind(gomock.Any(), content.KindMusic).
			Return(&commands.RecomputeResult{Kind: content.KindMusic, Scanned: 12, Rewritten: 5, Duration: 1500 * time.Millisecond}, nil).
			Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/music/recompute", nil, "")

		var body resdto.RecomputeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(resdto.RecomputeResponse{Kind: "music", Scanned: 12, Rewritten: 5, DurationMs: 1500}, body)
	})

	s.Run("error: 400 on unknown kind", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/admin/podcast/recompute", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid content kind")
	})
}
