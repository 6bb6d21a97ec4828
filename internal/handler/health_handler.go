package handler

import (
	"net/http"
	"time"

	"insights-service/pkg/database"
	"insights-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SchedulerStatus is the slice of the sync scheduler the health check needs.
type SchedulerStatus interface {
	IsRunning() bool
}

// NewHealthCheck returns the health check handler. The response always
// reports whether the background sync loop is running; a database ping is
// added on ?check=db.
func NewHealthCheck(sched SchedulerStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)
		log.Info("Health check requested")

		response := map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}

		if sched != nil && sched.IsRunning() {
			response["sync_scheduler"] = "running"
		} else {
			response["sync_scheduler"] = "idle"
		}

		// Check database connection if requested
		if c.QueryParam("check") == "db" {
			sqlDB, err := database.GetDB().DB()
			if err != nil {
				log.Error("Database connection error", zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				response["db_error"] = "Failed to get database connection"
				return c.JSON(http.StatusInternalServerError, response)
			}

			// Ping database to check connection
			if err := sqlDB.Ping(); err != nil {
				log.Error("Database ping error", zap.Error(err))
				response["status"] = "error"
				response["db_status"] = "error"
				response["db_error"] = "Failed to ping database"
				return c.JSON(http.StatusInternalServerError, response)
			}

			// Database is healthy
			response["db_status"] = "ok"
		}

		return c.JSON(http.StatusOK, response)
	}
}
