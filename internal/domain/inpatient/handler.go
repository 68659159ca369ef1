package inpatient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
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
	readGroup := api.Group("", auth.RequireRole("registrar", "doctor", "nurse", "cashier"))
	readGroup.GET("/rooms", h.ListRooms)
	readGroup.GET("/rooms/:id", h.GetRoom)
	readGroup.GET("/rooms/:id/beds", h.ListRoomBeds)
	readGroup.GET("/beds/available", h.ListAvailableBeds)
	readGroup.GET("/inpatient/admissions", h.ListAdmissions)
	readGroup.GET("/inpatient/admissions/:id", h.GetAdmission)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.POST("/rooms", h.CreateRoom)
	adminGroup.POST("/rooms/:id/beds", h.CreateBed)

	nurseGroup := api.Group("", auth.RequireRole("nurse", "doctor"))
	nurseGroup.POST("/inpatient/admissions", h.Admit)
	nurseGroup.PUT("/inpatient/admissions/:id", h.UpdateAdmission)
	nurseGroup.POST("/inpatient/admissions/:id/transfer", h.Transfer)
	nurseGroup.PUT("/beds/:id", h.SetBedStatus)
}

func mapErr(err error, noun string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, noun+" not found")
	case errors.Is(err, ErrBedUnavailable):
		return echo.NewHTTPError(http.StatusConflict, "bed is not available")
	case errors.Is(err, ErrNotActive):
		return echo.NewHTTPError(http.StatusConflict, "admission is not active")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) CreateRoom(c echo.Context) error {
	var r Room
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateRoom(c.Request().Context(), &r); err != nil {
		return mapErr(err, "room")
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetRoom(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.GetRoom(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "room not found")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListRooms(c echo.Context) error {
	rooms, err := h.svc.ListRooms(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *Handler) CreateBed(c echo.Context) error {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Bed
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.RoomID = roomID
	if err := h.svc.CreateBed(c.Request().Context(), &b); err != nil {
		return mapErr(err, "room")
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) ListRoomBeds(c echo.Context) error {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	beds, err := h.svc.ListRoomBeds(c.Request().Context(), roomID)
	if err != nil {
		return mapErr(err, "room")
	}
	return c.JSON(http.StatusOK, beds)
}

func (h *Handler) ListAvailableBeds(c echo.Context) error {
	beds, err := h.svc.ListAvailableBeds(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, beds)
}

func (h *Handler) SetBedStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SetBedMaintenance(c.Request().Context(), id, body.Status); err != nil {
		return mapErr(err, "bed")
	}
	b, err := h.svc.GetBed(c.Request().Context(), id)
	if err != nil {
		return mapErr(err, "bed")
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) Admit(c echo.Context) error {
	var a Admission
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Admit(c.Request().Context(), &a); err != nil {
		return mapErr(err, "bed")
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAdmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAdmission(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "admission not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAdmissions(c echo.Context) error {
	var f AdmissionFilter
	if v := c.QueryParam("patientId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patientId")
		}
		f.PatientID = &id
	}
	f.Status = c.QueryParam("status")
	items, err := h.svc.ListAdmissions(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateAdmission edits an active admission; a status of "discharged" in the
// body routes to the discharge workflow with its date and time fields.
func (h *Handler) UpdateAdmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status        string     `json:"status"`
		DischargeDate string     `json:"dischargeDate"`
		DischargeTime string     `json:"dischargeTime"`
		DoctorID      *uuid.UUID `json:"doctorId"`
		Diagnosis     *string    `json:"diagnosis"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if body.Status == AdmissionDischarged {
		a, err := h.svc.Discharge(c.Request().Context(), id, body.DischargeDate, body.DischargeTime)
		if err != nil {
			return mapErr(err, "admission")
		}
		return c.JSON(http.StatusOK, a)
	}
	if body.Status != "" && body.Status != AdmissionActive {
		return echo.NewHTTPError(http.StatusBadRequest, "status transitions go through discharge or transfer")
	}

	a, err := h.svc.UpdateAdmission(c.Request().Context(), id, body.DoctorID, body.Diagnosis)
	if err != nil {
		return mapErr(err, "admission")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Transfer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		BedID uuid.UUID `json:"bedId"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Transfer(c.Request().Context(), id, body.BedID)
	if err != nil {
		return mapErr(err, "admission")
	}
	return c.JSON(http.StatusCreated, a)
}
