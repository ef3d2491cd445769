package controllers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
)

// HomeController : HomeController struct
type HomeController struct {
	svc  *service.KhataService
	html string
}

func NewHomeController(svc *service.KhataService, html string) *HomeController {
	return &HomeController{
		svc:  svc,
		html: html,
	}
}

type HomepageContent struct {
	Branding service.BrandingConfig
}

func (controller *HomeController) Home(c echo.Context) error {
	tmpl, err := template.New("index").Parse(controller.html)
	if err != nil {
		return err
	}
	content := HomepageContent{
		Branding: controller.svc.Config.Branding,
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, content); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=300, stale-if-error=21600") // cache for 5 minutes or if error for 6 hours max
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
