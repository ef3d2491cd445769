package controllers

import (
	"net/http"

	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
)

// AuthController : AuthController struct
type AuthController struct {
	svc *service.KhataService
}

func NewAuthController(svc *service.KhataService) *AuthController {
	return &AuthController{svc: svc}
}

type AuthRequestBody struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponseBody struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

// Auth godoc
// @Summary      Authenticate
// @Description  Exchanges login/password or a refresh token for an access token
// @Accept       json
// @Produce      json
// @Tags         Account
// @Param        auth  body      AuthRequestBody  True  "Auth"
// @Success      200   {object}  AuthResponseBody
// @Failure      400   {object}  responses.ErrorResponse
// @Failure      401   {object}  responses.ErrorResponse
// @Router       /auth [post]
func (controller *AuthController) Auth(c echo.Context) error {

	var body AuthRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load auth request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	accessToken, refreshToken, err := controller.svc.GenerateToken(c.Request().Context(), body.Login, body.Password, body.RefreshToken)
	if err != nil {
		c.Logger().Errorf("Authentication failed: %v", err)
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}

	return c.JSON(http.StatusOK, &AuthResponseBody{
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
	})
}
