package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the API can reach its backing services: the orders
// database and the notification queue in Redis. Responds 503 when either is
// unreachable so the load balancer can drain the instance.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dependencias := gin.H{
			"postgres": "ok",
			"redis":    "ok",
		}
		sano := true

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dependencias["postgres"] = "sin conexion"
			sano = false
		}
		if rdb.Ping(ctx).Err() != nil {
			dependencias["redis"] = "sin conexion"
			sano = false
		}

		status := http.StatusOK
		if !sano {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"servicio":     "tusalud-backend",
			"ok":           sano,
			"dependencias": dependencias,
		})
	}
}
