package satusehat

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/simrs/simrs/internal/platform/auth"
)

// Handler exposes the sync queue state for operations staff.
type Handler struct {
	store JobStore
}

func NewHandler(store JobStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.Group("", auth.RequireRole("admin")).GET("/satusehat/status", h.Status)
}

func (h *Handler) Status(c echo.Context) error {
	counts, err := h.store.Counts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, counts)
}
