package controllers

import (
	"net/http"

	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
)

// HealthController : Health controller struct
type HealthController struct {
	svc *service.KhataService
}

func NewHealthController(svc *service.KhataService) *HealthController {
	return &HealthController{svc: svc}
}

// Health godoc
// @Summary      Health check
// @Description  Returns 200 when the service and its database are reachable
// @Produce      json
// @Tags         Core
// @Success      200
// @Failure      500
// @Router       /v2/health [get]
func (controller *HealthController) Health(c echo.Context) error {
	if err := controller.svc.DB.PingContext(c.Request().Context()); err != nil {
		c.Logger().Errorf("Health check failed to ping database: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
