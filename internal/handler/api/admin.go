package api

import (
	"net/http"

	"popularity-engine/internal/domain/content"
	reqdto "popularity-engine/internal/handler/dto/request"
	resdto "popularity-engine/internal/handler/dto/response"
	"popularity-engine/internal/handler/httperr"
	"popularity-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	coupons   commands.CouponCommands
	recompute commands.RecomputeCommands
}

func NewAdminHandler(coupons commands.CouponCommands, recompute commands.RecomputeCommands) *AdminHandler {
	return &AdminHandler{coupons: coupons, recompute: recompute}
}

// @Summary Issue coupon
// @Description Issue a power coupon to an owner (purchase fulfilment or grant)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.IssueCouponRequest true "Issue coupon request"
// @Success 201 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/coupons [post]
func (h *AdminHandler) IssueCoupon(c *gin.Context) {
	var req reqdto.IssueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	issued, err := h.coupons.Issue(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to issue coupon", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromIssuedCoupon(issued))
}

// @Summary Recompute stored scores
// @Description Rewrite the stored score of every item of a kind at the current time
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Content kind" Enums(image, video, music)
// @Success 200 {object} resdto.RecomputeResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/{kind}/recompute [post]
func (h *AdminHandler) Recompute(c *gin.Context) {
	kind, err := content.ParseKind(c.Param("kind"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid content kind", nil)
		return
	}
	result, err := h.recompute.RecomputeKind(c.Request.Context(), kind)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Recompute failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRecompute(result))
}
