package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Health reports service and database status.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "connected"
		sqlDB, errDB := db.DB()
		if errDB != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			database = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "OK",
			"database": database,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
