package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BalanceController : Balance controller struct
type BalanceController struct {
	svc *service.KhataService
}

func NewBalanceController(svc *service.KhataService) *BalanceController {
	return &BalanceController{svc: svc}
}

type BalanceResponse struct {
	ClientID int64           `json:"client_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// Balance godoc
// @Summary      Retrieve a client's balance
// @Description  Current balance is the running balance after the chronologically last transaction
// @Accept       json
// @Produce      json
// @Tags         Client
// @Param        client_id  path  string  true  "Client ID"
// @Success      200  {object}  BalanceResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/clients/{client_id}/balance [get]
// @Security     OAuth2Password
func (controller *BalanceController) Balance(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	clientId, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	balance, err := controller.svc.ClientBalance(c.Request().Context(), userId, clientId)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to load balance: user_id:%v client_id:%v error: %v", userId, clientId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &BalanceResponse{ClientID: clientId, Balance: balance})
}
