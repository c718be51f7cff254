package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/model"
	"github.com/Leganyst/grooming-booking/internal/transport/middleware"
)

type BookingHandler struct {
	engine *booking.Engine
	log    *logrus.Entry
}

func NewBookingHandler(engine *booking.Engine, log *logrus.Entry) *BookingHandler {
	return &BookingHandler{engine: engine, log: log}
}

func (h *BookingHandler) location() *time.Location {
	return h.engine.Clock().Now().Location()
}

// AvailableSlots: GET /api/v1/slots?date=YYYY-MM-DD
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	date, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.engine.ListAvailableSlots(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{Time: s.Time.String(), Label: s.Label})
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format(time.DateOnly), "slots": out})
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	serviceID, ok := optionalID(c, req.ServiceID, "service_id")
	if !ok {
		return
	}
	var date time.Time
	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			badRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	b, err := h.engine.CreateBooking(c.Request.Context(), booking.CreateRequest{
		CustomerID: middleware.CustomerID(c),
		ServiceID:  serviceID,
		Date:       date,
		Time:       req.Time,
		BreedSize:  model.BreedSize(req.BreedSize),
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(b, h.location()))
}

func (h *BookingHandler) MyBookings(c *gin.Context) {
	upcoming, previous, err := h.engine.CustomerBookings(c.Request.Context(), middleware.CustomerID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	loc := h.location()
	c.JSON(http.StatusOK, gin.H{
		"upcoming": toBookingList(upcoming, loc),
		"previous": toBookingList(previous, loc),
	})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.engine.GetBooking(c.Request.Context(), id, middleware.CustomerID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b, h.location()))
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	serviceID, ok := optionalID(c, req.ServiceID, "service_id")
	if !ok {
		return
	}

	b, err := h.engine.UpdateBooking(c.Request.Context(), booking.UpdateRequest{
		BookingID:  id,
		CustomerID: middleware.CustomerID(c),
		ServiceID:  serviceID,
		BreedSize:  model.BreedSize(req.BreedSize),
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b, h.location()))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.engine.CancelBooking(c.Request.Context(), id, middleware.CustomerID(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(b, h.location()))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// optionalID: пустая строка означает «не выбрано».
func optionalID(c *gin.Context, raw, name string) (uuid.UUID, bool) {
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
