package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHeader выставляет внешний слой аутентификации.
const CustomerHeader = "X-Customer-ID"

const customerKey = "customer_id"

// Customer требует заголовок X-Customer-ID с UUID клиента.
func Customer() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(CustomerHeader))
		if err != nil || id == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + CustomerHeader})
			return
		}
		c.Set(customerKey, id)
		c.Next()
	}
}

func CustomerID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(customerKey)
	v, _ := id.(uuid.UUID)
	return v
}
