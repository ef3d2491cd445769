package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ClientController : Client controller struct
type ClientController struct {
	svc *service.KhataService
}

func NewClientController(svc *service.KhataService) *ClientController {
	return &ClientController{svc: svc}
}

type ClientRequestBody struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type Client struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Phone            string          `json:"phone,omitempty"`
	Address          string          `json:"address,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transaction_count"`
	LastActivity     *time.Time      `json:"last_activity,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type GetClientsResponseBody struct {
	Clients []Client `json:"clients"`
}

func newClientResponse(overview service.ClientOverview) Client {
	response := Client{
		ID:               overview.Client.ID,
		Name:             overview.Client.Name,
		Phone:            overview.Client.Phone,
		Address:          overview.Client.Address,
		Notes:            overview.Client.Notes,
		Balance:          overview.Balance,
		TransactionCount: overview.TransactionCount,
		CreatedAt:        overview.Client.CreatedAt,
	}
	if !overview.LastActivity.IsZero() {
		lastActivity := overview.LastActivity
		response.LastActivity = &lastActivity
	}
	return response
}

// CreateClient godoc
// @Summary      Create a client
// @Description  Adds a client account to the caller's ledger book
// @Accept       json
// @Produce      json
// @Tags         Client
// @Param        client  body  ClientRequestBody  True  "Create Client"
// @Success      200  {object}  Client
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/clients [post]
// @Security     OAuth2Password
func (controller *ClientController) CreateClient(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	var body ClientRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load client request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	client, err := controller.svc.CreateClient(c.Request().Context(), userId, service.ClientParams{
		Name:    body.Name,
		Phone:   body.Phone,
		Address: body.Address,
		Notes:   body.Notes,
	})
	if err != nil {
		c.Logger().Errorf("Failed to create client: user_id:%v error: %v", userId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, newClientResponse(service.ClientOverview{Client: *client, Balance: decimal.Zero}))
}

// GetClients godoc
// @Summary      List clients
// @Description  Returns all of the caller's clients with their current balance and activity aggregates
// @Accept       json
// @Produce      json
// @Tags         Client
// @Success      200  {object}  GetClientsResponseBody
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/clients [get]
// @Security     OAuth2Password
func (controller *ClientController) GetClients(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	overviews, err := controller.svc.ClientsForUser(c.Request().Context(), userId)
	if err != nil {
		c.Logger().Errorf("Failed to list clients: user_id:%v error: %v", userId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	response := make([]Client, len(overviews))
	for i, overview := range overviews {
		response[i] = newClientResponse(overview)
	}
	return c.JSON(http.StatusOK, &GetClientsResponseBody{Clients: response})
}

// GetClient godoc
// @Summary      Retrieve a client
// @Description  Returns a single client with its current balance and activity aggregates
// @Accept       json
// @Produce      json
// @Tags         Client
// @Param        client_id  path  string  true  "Client ID"
// @Success      200  {object}  Client
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/clients/{client_id} [get]
// @Security     OAuth2Password
func (controller *ClientController) GetClient(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	clientId, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	client, err := controller.svc.FindClient(c.Request().Context(), userId, clientId)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		return err
	}
	balance, err := controller.svc.ClientBalance(c.Request().Context(), userId, clientId)
	if err != nil {
		c.Logger().Errorf("Failed to load client balance: user_id:%v client_id:%v error: %v", userId, clientId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, newClientResponse(service.ClientOverview{Client: *client, Balance: balance}))
}

// UpdateClient godoc
// @Summary      Update a client
// @Description  Updates a client's contact details
// @Accept       json
// @Produce      json
// @Tags         Client
// @Param        client_id  path  string             true  "Client ID"
// @Param        client     body  ClientRequestBody  True  "Update Client"
// @Success      200  {object}  Client
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/clients/{client_id} [put]
// @Security     OAuth2Password
func (controller *ClientController) UpdateClient(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	clientId, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body ClientRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load client request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	client, err := controller.svc.UpdateClient(c.Request().Context(), userId, clientId, service.ClientParams{
		Name:    body.Name,
		Phone:   body.Phone,
		Address: body.Address,
		Notes:   body.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to update client: user_id:%v client_id:%v error: %v", userId, clientId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	balance, err := controller.svc.ClientBalance(c.Request().Context(), userId, clientId)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newClientResponse(service.ClientOverview{Client: *client, Balance: balance}))
}

// DeleteClient godoc
// @Summary      Delete a client
// @Description  Removes a client and its entire ledger
// @Accept       json
// @Produce      json
// @Tags         Client
// @Param        client_id  path  string  true  "Client ID"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/clients/{client_id} [delete]
// @Security     OAuth2Password
func (controller *ClientController) DeleteClient(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	clientId, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	err = controller.svc.DeleteClient(c.Request().Context(), userId, clientId)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to delete client: user_id:%v client_id:%v error: %v", userId, clientId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.NoContent(http.StatusNoContent)
}
