package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simrs/simrs/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "registrar", "doctor", "nurse", "cashier"))
	g.GET("/dashboard/stats", h.Stats)
	g.GET("/dashboard/capacity", h.Capacity)
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Capacity(c echo.Context) error {
	cp, err := h.svc.Capacity(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cp)
}
