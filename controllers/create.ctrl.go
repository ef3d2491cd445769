package controllers

import (
	"net/http"

	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

// CreateUserController : Create user controller struct
type CreateUserController struct {
	svc *service.KhataService
}

func NewCreateUserController(svc *service.KhataService) *CreateUserController {
	return &CreateUserController{svc: svc}
}

type CreateUserRequestBody struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
}

type CreateUserResponseBody struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name,omitempty"`
}

// CreateUser godoc
// @Summary      Create an account
// @Description  Creates a new account, generating credentials when none are provided
// @Accept       json
// @Produce      json
// @Tags         Account
// @Param        account  body      CreateUserRequestBody  True  "Create User"
// @Success      200      {object}  CreateUserResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /v2/users [post]
func (controller *CreateUserController) CreateUser(c echo.Context) error {

	var body CreateUserRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create user request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	user, err := controller.svc.CreateUser(c.Request().Context(), body.Login, body.Password, body.BusinessName)
	if err != nil {
		c.Logger().Errorf("Failed to create user: %v", err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	return c.JSON(http.StatusOK, &CreateUserResponseBody{
		Login:        user.Login,
		Password:     user.Password,
		BusinessName: user.BusinessName,
	})
}
