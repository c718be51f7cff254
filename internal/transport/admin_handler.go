package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/catalog"
	"github.com/Leganyst/grooming-booking/internal/model"
)

// AdminHandler обслуживает кабинет персонала. Проверка прав сотрудника
// выполняется перед сервисом.
type AdminHandler struct {
	engine  *booking.Engine
	catalog *catalog.Catalog
	log     *logrus.Entry
}

func NewAdminHandler(engine *booking.Engine, cat *catalog.Catalog, log *logrus.Entry) *AdminHandler {
	return &AdminHandler{engine: engine, catalog: cat, log: log}
}

func (h *AdminHandler) location() *time.Location {
	return h.engine.Clock().Now().Location()
}

func (h *AdminHandler) ListServices(c *gin.Context) {
	list, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceWithCount(s))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	svc, err := h.catalog.CreateService(c.Request.Context(), catalog.ServiceInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toServiceResponse(svc))
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	svc, err := h.catalog.UpdateService(c.Request.Context(), id, catalog.ServiceInput(req))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(svc))
}

func (h *AdminHandler) SetServiceActive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "is_active is required")
		return
	}
	if err := h.catalog.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "is_active": *req.IsActive})
}

func (h *AdminHandler) DeleteService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeleteService(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) Upcoming(c *gin.Context) {
	page, size := pageParams(c)
	p, err := h.engine.UpcomingPage(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(p, h.location()))
}

func (h *AdminHandler) Previous(c *gin.Context) {
	page, size := pageParams(c)
	p, err := h.engine.PreviousPage(c.Request.Context(), page, size)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(p, h.location()))
}

func (h *AdminHandler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.engine.StaffBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b, h.location()))
}

func (h *AdminHandler) CompleteBooking(c *gin.Context) {
	h.setStatus(c, model.BookingStatusCompleted)
}

func (h *AdminHandler) CancelBooking(c *gin.Context) {
	h.setStatus(c, model.BookingStatusCancelled)
}

func (h *AdminHandler) setStatus(c *gin.Context, status model.BookingStatus) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var (
		b   *model.Booking
		err error
	)
	if status == model.BookingStatusCompleted {
		b, err = h.engine.MarkCompleted(c.Request.Context(), id)
	} else {
		b, err = h.engine.MarkCancelled(c.Request.Context(), id)
	}
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b, h.location()))
}

// pageParams: нечисловые значения заменяются дефолтами в NormalizePage.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return page, size
}
