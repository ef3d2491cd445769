package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/digikhata/khata.go/common"
	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
)

// TransactionStreamController : Transaction stream controller struct
type TransactionStreamController struct {
	svc *service.KhataService
}

func NewTransactionStreamController(svc *service.KhataService) *TransactionStreamController {
	return &TransactionStreamController{svc: svc}
}

type TransactionEvent struct {
	Type        string      `json:"type"`
	Transaction Transaction `json:"transaction"`
}

// StreamTransactions godoc
// @Summary      Subscribe to ledger changes
// @Description  Server-sent event stream of the caller's transaction create/update/delete events
// @Produce      text/event-stream
// @Tags         Transaction
// @Success      200
// @Router       /v2/transactions/stream [get]
// @Security     OAuth2Password
func (controller *TransactionStreamController) StreamTransactions(c echo.Context) error {
	userId := c.Get("UserID").(int64)

	events := make(chan common.TxEvent)
	subId, err := controller.svc.TxPubSub.Subscribe(userId, events)
	if err != nil {
		c.Logger().Errorf("Failed to subscribe to ledger events: user_id:%v error: %v", userId, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	defer controller.svc.TxPubSub.Unsubscribe(subId, userId)

	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-events:
			payload, err := json.Marshal(TransactionEvent{
				Type:        event.Type,
				Transaction: newTransactionResponse(event.Transaction),
			})
			if err != nil {
				c.Logger().Errorf("Failed to encode ledger event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", payload); err != nil {
				return nil
			}
			c.Response().Flush()
		}
	}
}
