package api

import (
	"errors"
	"net/http"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/popularity"
	reqdto "popularity-engine/internal/handler/dto/request"
	resdto "popularity-engine/internal/handler/dto/response"
	"popularity-engine/internal/handler/httperr"
	"popularity-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PopularHandler struct {
	q queries.PopularQueries
}

func NewPopularHandler(q queries.PopularQueries) *PopularHandler {
	return &PopularHandler{q: q}
}

// @Summary List popular content
// @Description Ranked listing of one content kind by live or stored score
// @Tags popular
// @Produce json
// @Param kind path string true "Content kind" Enums(image, video, music)
// @Param mode query string false "Ranking mode" Enums(live, stored)
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size (max 200)"
// @Success 200 {object} resdto.PopularPageResponse
// @Failure 400 {object} httperr.Response
// @Router /api/{kind}/popular [get]
func (h *PopularHandler) List(c *gin.Context) {
	kind, err := content.ParseKind(c.Param("kind"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid content kind", nil)
		return
	}
	var q reqdto.ListPopularQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	mode, err := popularity.ParseMode(q.Mode)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid mode", nil)
		return
	}

	page, err := h.q.List(c.Request.Context(), kind, mode, q.Page, q.PageSize)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list popular content", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPopularPage(page))
}

// @Summary Item score
// @Description Live and stored score of one item with its boost state
// @Tags popular
// @Produce json
// @Param kind path string true "Content kind" Enums(image, video, music)
// @Param id path string true "Item ID"
// @Success 200 {object} resdto.ItemScoreResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/{kind}/items/{id}/score [get]
func (h *PopularHandler) GetScore(c *gin.Context) {
	kind, err := content.ParseKind(c.Param("kind"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid content kind", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.q.GetScore(c.Request.Context(), kind, id)
	if err != nil {
		if errors.Is(err, queries.ErrItemNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load score", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromItemScore(view))
}
