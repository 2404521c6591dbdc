package requests

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

	r.POST("/requests", h.Create)
	r.GET("/requests", h.GetAllByRequestor)
	r.GET("/requests/all", h.GetAll)
	r.GET("/requests/:id", h.GetByID)
}

// ---------- handlers ----------

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequestRequest
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

func (h *Handler) GetAllByRequestor(c *gin.Context) {
	res, err := h.svc.GetAllByRequestor(c.Request.Context(), identity.UserID(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAll(c *gin.Context) {
	from := parseIntDefault(c.Query("from"), pagex.DefaultFrom)
	size := parseIntDefault(c.Query("size"), pagex.DefaultSize)
	res, err := h.svc.GetAll(c.Request.Context(), identity.UserID(c), from, size)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "id must be a positive integer"))
		return
	}
	res, err := h.svc.GetByID(c.Request.Context(), id, identity.UserID(c))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.BodyFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
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
