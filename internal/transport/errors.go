package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/grooming-booking/internal/booking"
	"github.com/Leganyst/grooming-booking/internal/catalog"
)

type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeError отдаёт ошибку ядра с подходящим HTTP-статусом.
func writeError(c *gin.Context, log *logrus.Entry, err error) {
	var verr *booking.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: verr.ByField()})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, booking.ErrPermissionDenied),
		errors.Is(err, booking.ErrCustomerInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, booking.ErrInvalidCustomerID):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, booking.ErrBookingPast),
		errors.Is(err, catalog.ErrServiceInUse):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("internal error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
