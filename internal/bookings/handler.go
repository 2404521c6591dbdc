package bookings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit-backend/internal/platform/apperr"
	"shareit-backend/internal/platform/identity"
	"shareit-backend/internal/platform/pagex"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/bookings", h.Create)
	r.PATCH("/bookings/:id", h.UpdateApprove)
	r.GET("/bookings/:id", h.GetByID)
	r.GET("/bookings", h.GetAllByState)
	r.GET("/bookings/owner", h.GetAllByOwner)
}

// ---------- handlers ----------

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req, identity.UserID(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) UpdateApprove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "approved must be true or false"))
		return
	}
	res, err := h.svc.UpdateApprove(c.Request.Context(), id, approved, identity.UserID(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetByID(c.Request.Context(), id, identity.UserID(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAllByState(c *gin.Context) {
	st, err := ParseState(c.Query("state"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	from, size := queryPage(c)
	res, err := h.svc.GetAllByState(c.Request.Context(), identity.UserID(c), st, from, size)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAllByOwner(c *gin.Context) {
	st, err := ParseState(c.Query("state"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	from, size := queryPage(c)
	res, err := h.svc.GetAllByOwner(c.Request.Context(), identity.UserID(c), st, from, size)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func queryPage(c *gin.Context) (from, size int) {
	from = parseIntDefault(c.Query("from"), pagex.DefaultFrom)
	size = parseIntDefault(c.Query("size"), pagex.DefaultSize)
	return from, size
}
