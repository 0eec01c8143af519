package api

import (
	"errors"
	"net/http"

	reqdto "popularity-engine/internal/handler/dto/request"
	resdto "popularity-engine/internal/handler/dto/response"
	"popularity-engine/internal/handler/httperr"
	"popularity-engine/internal/handler/middleware"
	"popularity-engine/internal/usecase/commands"
	"popularity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errors.New("missing authenticated user")

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary List my coupons
// @Description Coupons owned by the caller, newest first
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CouponResponse
// @Failure 401 {object} httperr.Response
// @Router /api/coupons [get]
func (h *CouponHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	views, err := h.q.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list coupons", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponList(views))
}

// @Summary Redeem coupon
// @Description Redeem a power coupon on one of the caller's items
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param request body reqdto.RedeemCouponRequest true "Target item"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /api/coupons/{id}/redeem [post]
func (h *CouponHandler) Redeem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return
	}
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid coupon id", nil)
		return
	}
	var req reqdto.RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand(couponID, userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Redeem(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Redemption failed", nil)
		return
	}
	if !result.Succeeded() {
		status, msg := redemptionStatus(result.Outcome)
		httperr.AbortWithRejection(c, status, result.Err(), msg, string(result.Outcome), result.RemainingWait)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRedemption(result))
}

func redemptionStatus(outcome commands.Outcome) (int, string) {
	switch outcome {
	case commands.OutcomeNotFound:
		return http.StatusNotFound, "Coupon or item not found"
	case commands.OutcomeForbidden:
		return http.StatusForbidden, "Coupon or item belongs to another user"
	case commands.OutcomeAlreadyUsed:
		return http.StatusConflict, "Coupon already used"
	case commands.OutcomeCouponExpired:
		return http.StatusGone, "Coupon expired"
	case commands.OutcomeConcurrencyCapExceeded:
		return http.StatusConflict, "Active boost limit reached"
	case commands.OutcomeItemTooYoung:
		return http.StatusUnprocessableEntity, "Item is too young to boost"
	case commands.OutcomeCooldownActive:
		return http.StatusUnprocessableEntity, "Item was boosted too recently"
	default:
		return http.StatusInternalServerError, "Redemption failed"
	}
}
