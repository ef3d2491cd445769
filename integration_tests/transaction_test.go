package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"testing"

	"github.com/digikhata/khata.go/controllers"
	"github.com/digikhata/khata.go/db/models"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	suite.Suite
	Service *service.KhataService
	echo    *echo.Echo
	userId  int64
}

func (suite *LedgerTestSuite) SetupSuite() {
	svc, err := KhataTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	_, userIds, err := createUsers(svc, 1)
	if err != nil {
		log.Fatalf("Error creating test users %v", err)
	}
	suite.Service = svc
	suite.echo = newTestEcho()
	suite.userId = userIds[0]
}

func (suite *LedgerTestSuite) SetupTest() {
	assert.NoError(suite.T(), clearTable(suite.Service, "transactions"))
	assert.NoError(suite.T(), clearTable(suite.Service, "clients"))
}

func (suite *LedgerTestSuite) TearDownSuite() {
	assert.NoError(suite.T(), clearTable(suite.Service, "transactions"))
	assert.NoError(suite.T(), clearTable(suite.Service, "clients"))
	assert.NoError(suite.T(), clearTable(suite.Service, "users"))
}

func (suite *LedgerTestSuite) createClient(name string) *models.Client {
	client, err := suite.Service.CreateClient(context.Background(), suite.userId, service.ClientParams{Name: name})
	assert.NoError(suite.T(), err)
	return client
}

func (suite *LedgerTestSuite) addTransaction(clientId int64, date, debit, credit string) controllers.Transaction {
	c, rec, err := newJSONContext(suite.echo, http.MethodPost,
		fmt.Sprintf("/v2/clients/%d/transactions", clientId), suite.userId,
		&controllers.TransactionRequestBody{Date: date, Debit: debit, Credit: credit})
	assert.NoError(suite.T(), err)
	c.SetParamNames("client_id")
	c.SetParamValues(strconv.FormatInt(clientId, 10))

	controller := controllers.NewTransactionController(suite.Service)
	assert.NoError(suite.T(), controller.AddTransaction(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var transaction controllers.Transaction
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&transaction))
	return transaction
}

func (suite *LedgerTestSuite) getTransactions(clientId int64, query string) (int, []controllers.Transaction) {
	target := fmt.Sprintf("/v2/clients/%d/transactions", clientId)
	if query != "" {
		target = target + "?" + query
	}
	c, rec, err := newJSONContext(suite.echo, http.MethodGet, target, suite.userId, nil)
	assert.NoError(suite.T(), err)
	c.SetParamNames("client_id")
	c.SetParamValues(strconv.FormatInt(clientId, 10))

	controller := controllers.NewTransactionController(suite.Service)
	assert.NoError(suite.T(), controller.GetTransactions(c))
	if rec.Code != http.StatusOK {
		return rec.Code, nil
	}
	var response controllers.GetTransactionsResponseBody
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&response))
	return rec.Code, response.Transactions
}

func (suite *LedgerTestSuite) getBalance(clientId int64) (int, controllers.BalanceResponse) {
	c, rec, err := newJSONContext(suite.echo, http.MethodGet,
		fmt.Sprintf("/v2/clients/%d/balance", clientId), suite.userId, nil)
	assert.NoError(suite.T(), err)
	c.SetParamNames("client_id")
	c.SetParamValues(strconv.FormatInt(clientId, 10))

	var response controllers.BalanceResponse
	assert.NoError(suite.T(), controllers.NewBalanceController(suite.Service).Balance(c))
	if rec.Code == http.StatusOK {
		assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&response))
	}
	return rec.Code, response
}

func (suite *LedgerTestSuite) TestRunningBalance() {
	client := suite.createClient("Himalaya Pharma")

	suite.addTransaction(client.ID, "2025-01-05", "500", "")
	suite.addTransaction(client.ID, "2025-01-10", "", "300")

	code, rows := suite.getTransactions(client.ID, "sort_order=asc")
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), 2, len(rows))
	assert.Equal(suite.T(), "500", rows[0].BalanceAfter.String())
	assert.Equal(suite.T(), "200", rows[1].BalanceAfter.String())

	// descending display keeps the same balances attached to the same rows
	code, rows = suite.getTransactions(client.ID, "")
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), "2025-01-10", rows[0].Date)
	assert.Equal(suite.T(), "200", rows[0].BalanceAfter.String())
	assert.Equal(suite.T(), "500", rows[1].BalanceAfter.String())

	code, balance := suite.getBalance(client.ID)
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), "200", balance.Balance.String())
}

func (suite *LedgerTestSuite) TestBackdatedEntryResequences() {
	client := suite.createClient("Gandaki Traders")

	suite.addTransaction(client.ID, "2025-01-05", "500", "")
	suite.addTransaction(client.ID, "2025-01-10", "", "300")
	// a payment recorded late, dated before everything else
	suite.addTransaction(client.ID, "2025-01-01", "", "200")

	code, rows := suite.getTransactions(client.ID, "sort_order=asc")
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), 3, len(rows))
	assert.Equal(suite.T(), "2025-01-01", rows[0].Date)
	assert.Equal(suite.T(), "-200", rows[0].BalanceAfter.String())
	assert.Equal(suite.T(), "300", rows[1].BalanceAfter.String())
	assert.Equal(suite.T(), "0", rows[2].BalanceAfter.String())

	code, balance := suite.getBalance(client.ID)
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), "0", balance.Balance.String())
}

func (suite *LedgerTestSuite) TestDeleteRewritesBalances() {
	client := suite.createClient("Lumbini Suppliers")

	suite.addTransaction(client.ID, "2025-02-01", "100", "")
	middle := suite.addTransaction(client.ID, "2025-02-02", "100", "")
	suite.addTransaction(client.ID, "2025-02-03", "100", "")

	c, rec, err := newJSONContext(suite.echo, http.MethodDelete,
		fmt.Sprintf("/v2/transactions/%d", middle.ID), suite.userId, nil)
	assert.NoError(suite.T(), err)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(middle.ID, 10))
	assert.NoError(suite.T(), controllers.NewTransactionController(suite.Service).DeleteTransaction(c))
	assert.Equal(suite.T(), http.StatusNoContent, rec.Code)

	code, rows := suite.getTransactions(client.ID, "sort_order=asc")
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), 2, len(rows))
	assert.Equal(suite.T(), "100", rows[0].BalanceAfter.String())
	assert.Equal(suite.T(), "200", rows[1].BalanceAfter.String())
}

func (suite *LedgerTestSuite) TestUpdateRewritesBalances() {
	client := suite.createClient("Everest Distributors")

	first := suite.addTransaction(client.ID, "2025-03-01", "500", "")
	suite.addTransaction(client.ID, "2025-03-05", "", "300")

	c, rec, err := newJSONContext(suite.echo, http.MethodPut,
		fmt.Sprintf("/v2/transactions/%d", first.ID), suite.userId,
		&controllers.TransactionRequestBody{Date: "2025-03-01", Debit: "700"})
	assert.NoError(suite.T(), err)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatInt(first.ID, 10))
	assert.NoError(suite.T(), controllers.NewTransactionController(suite.Service).UpdateTransaction(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	code, rows := suite.getTransactions(client.ID, "sort_order=asc")
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), "700", rows[0].BalanceAfter.String())
	assert.Equal(suite.T(), "400", rows[1].BalanceAfter.String())
}

func (suite *LedgerTestSuite) TestSameDateOrdersById() {
	client := suite.createClient("Annapurna Medico")

	first := suite.addTransaction(client.ID, "2025-04-01", "50", "")
	second := suite.addTransaction(client.ID, "2025-04-01", "", "20")

	code, rows := suite.getTransactions(client.ID, "sort_order=asc")
	assert.Equal(suite.T(), http.StatusOK, code)
	assert.Equal(suite.T(), first.ID, rows[0].ID)
	assert.Equal(suite.T(), second.ID, rows[1].ID)
	assert.Equal(suite.T(), "50", rows[0].BalanceAfter.String())
	assert.Equal(suite.T(), "30", rows[1].BalanceAfter.String())
}

func (suite *LedgerTestSuite) TestInvalidSortRejected() {
	client := suite.createClient("Koshi Agencies")
	code, _ := suite.getTransactions(client.ID, "sort_field=amount")
	assert.Equal(suite.T(), http.StatusBadRequest, code)

	code, _ = suite.getTransactions(client.ID, "sort_order=sideways")
	assert.Equal(suite.T(), http.StatusBadRequest, code)
}

func (suite *LedgerTestSuite) TestUnknownClient() {
	code, _ := suite.getTransactions(999999, "")
	assert.Equal(suite.T(), http.StatusNotFound, code)

	code, _ = suite.getBalance(999999)
	assert.Equal(suite.T(), http.StatusNotFound, code)
}

func (suite *LedgerTestSuite) TestRejectsBothAmountsZero() {
	client := suite.createClient("Mechi Stores")
	c, rec, err := newJSONContext(suite.echo, http.MethodPost,
		fmt.Sprintf("/v2/clients/%d/transactions", client.ID), suite.userId,
		&controllers.TransactionRequestBody{Date: "2025-05-01"})
	assert.NoError(suite.T(), err)
	c.SetParamNames("client_id")
	c.SetParamValues(strconv.FormatInt(client.ID, 10))
	assert.NoError(suite.T(), controllers.NewTransactionController(suite.Service).AddTransaction(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}
