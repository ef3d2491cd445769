package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/digikhata/khata.go/db/models"
	"github.com/digikhata/khata.go/ledger"
	"github.com/digikhata/khata.go/lib/nepalidate"
	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// TransactionController : Transaction controller struct
type TransactionController struct {
	svc *service.KhataService
}

func NewTransactionController(svc *service.KhataService) *TransactionController {
	return &TransactionController{svc: svc}
}

type Transaction struct {
	ID           int64           `json:"id"`
	ClientID     int64           `json:"client_id"`
	Date         string          `json:"date"`
	DateBS       string          `json:"date_bs,omitempty"`
	Particulars  string          `json:"particulars"`
	BillNo       string          `json:"bill_no,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

type TransactionRequestBody struct {
	Date        string `json:"date" validate:"required"`
	Particulars string `json:"particulars"`
	BillNo      string `json:"bill_no"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
}

type GetTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions"`
}

func newTransactionResponse(transaction models.Transaction) Transaction {
	response := Transaction{
		ID:           transaction.ID,
		ClientID:     transaction.ClientID,
		Date:         transaction.Date.Format(dateLayout),
		Particulars:  transaction.Particulars,
		BillNo:       transaction.BillNo,
		Debit:        transaction.Debit,
		Credit:       transaction.Credit,
		BalanceAfter: transaction.BalanceAfter,
		CreatedAt:    transaction.CreatedAt,
	}
	// BS rendering is display-only, skip it silently for out-of-range dates
	if bs, err := nepalidate.FromTime(transaction.Date); err == nil {
		response.DateBS = bs.String()
	}
	return response
}

func (body *TransactionRequestBody) toParams() (service.TransactionParams, error) {
	params := service.TransactionParams{
		Particulars: body.Particulars,
		BillNo:      body.BillNo,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
	}
	date, err := time.Parse(dateLayout, body.Date)
	if err != nil {
		return params, err
	}
	params.Date = date
	if body.Debit != "" {
		if params.Debit, err = decimal.NewFromString(body.Debit); err != nil {
			return params, err
		}
	}
	if body.Credit != "" {
		if params.Credit, err = decimal.NewFromString(body.Credit); err != nil {
			return params, err
		}
	}
	return params, nil
}

func sortSpecFromQuery(c echo.Context) ledger.SortSpec {
	spec := ledger.SortSpec{
		Field: c.QueryParam("sort_field"),
		Order: c.QueryParam("sort_order"),
	}
	if spec.Field == "" {
		spec.Field = ledger.SortFieldDate
	}
	if spec.Order == "" {
		spec.Order = ledger.SortOrderDesc
	}
	return spec
}

// GetTransactions godoc
// @Summary      Retrieve a client's ledger
// @Description  Returns the client's transactions with running balances, ordered per sort_field/sort_order
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        client_id   path   string  true   "Client ID"
// @Param        sort_field  query  string  false  "date or created_at"  default(date)
// @Param        sort_order  query  string  false  "asc or desc"         default(desc)
// @Success      200  {object}  GetTransactionsResponseBody
// @Failure     400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/clients/{client_id}/transactions [get]
// @Security     OAuth2Password
func (controller *TransactionController) GetTransactions(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	clientId, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	spec := sortSpecFromQuery(c)
	if err := spec.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, responses.InvalidSortError)
	}

	transactions, err := controller.svc.TransactionsFor(c.Request().Context(), userId, clientId, spec)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		return err
	}

	response := make([]Transaction, len(transactions))
	for i, transaction := range transactions {
		response[i] = newTransactionResponse(transaction)
	}
	return c.JSON(http.StatusOK, &GetTransactionsResponseBody{Transactions: response})
}

// AddTransaction godoc
// @Summary      Add a transaction
// @Description  Records a debit or credit entry and rewrites the client's running balances
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        client_id    path  string                  true  "Client ID"
// @Param        transaction  body  TransactionRequestBody  True  "Add Transaction"
// @Success      200  {object}  Transaction
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/clients/{client_id}/transactions [post]
// @Security     OAuth2Password
func (controller *TransactionController) AddTransaction(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	clientId, err := strconv.ParseInt(c.Param("client_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body TransactionRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	params, err := body.toParams()
	if err != nil {
		c.Logger().Errorf("Invalid transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	transaction, err := controller.svc.AddTransaction(c.Request().Context(), userId, clientId, params)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to add transaction: user_id:%v client_id:%v error: %v", userId, clientId, err)
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	return c.JSON(http.StatusOK, newTransactionResponse(*transaction))
}

// UpdateTransaction godoc
// @Summary      Update a transaction
// @Description  Updates date, particulars or amounts and rewrites the client's running balances
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        id           path  string                  true  "Transaction ID"
// @Param        transaction  body  TransactionRequestBody  True  "Update Transaction"
// @Success      200  {object}  Transaction
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/transactions/{id} [put]
// @Security     OAuth2Password
func (controller *TransactionController) UpdateTransaction(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	transactionId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	var body TransactionRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	params, err := body.toParams()
	if err != nil {
		c.Logger().Errorf("Invalid transaction request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	transaction, err := controller.svc.UpdateTransaction(c.Request().Context(), userId, transactionId, params)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to update transaction: user_id:%v transaction_id:%v error: %v", userId, transactionId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadRequest, responses.InvalidAmountError)
	}

	return c.JSON(http.StatusOK, newTransactionResponse(*transaction))
}

// DeleteTransaction godoc
// @Summary      Delete a transaction
// @Description  Removes an entry and rewrites the client's running balances
// @Accept       json
// @Produce      json
// @Tags         Transaction
// @Param        id  path  string  true  "Transaction ID"
// @Success      204
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v2/transactions/{id} [delete]
// @Security     OAuth2Password
func (controller *TransactionController) DeleteTransaction(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	transactionId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	err = controller.svc.DeleteTransaction(c.Request().Context(), userId, transactionId)
	if err != nil {
		if errors.Is(err, service.ErrTransactionNotFound) {
			return c.JSON(http.StatusNotFound, responses.NotFoundError)
		}
		c.Logger().Errorf("Failed to delete transaction: user_id:%v transaction_id:%v error: %v", userId, transactionId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.NoContent(http.StatusNoContent)
}
