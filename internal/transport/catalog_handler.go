package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Leganyst/grooming-booking/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	log     *logrus.Entry
}

func NewCatalogHandler(cat *catalog.Catalog, log *logrus.Entry) *CatalogHandler {
	return &CatalogHandler{catalog: cat, log: log}
}

func (h *CatalogHandler) ActiveServices(c *gin.Context) {
	services, err := h.catalog.ActiveServices(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]ServiceResponse, 0, len(services))
	for i := range services {
		out = append(out, toServiceResponse(&services[i]))
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	svc, err := h.catalog.ServiceByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(svc))
}
