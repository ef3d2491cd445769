package integration_tests

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/digikhata/khata.go/controllers"
	"github.com/digikhata/khata.go/db/models"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
	Service *service.KhataService
	echo    *echo.Echo
	userId  int64
	client  *models.Client
}

func (suite *ReportTestSuite) SetupSuite() {
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

	client, err := svc.CreateClient(context.Background(), suite.userId, service.ClientParams{Name: "Seti Medical Hall"})
	assert.NoError(suite.T(), err)
	suite.client = client

	ledger := suite.addLedgerSuite()
	assert.Equal(suite.T(), 4, len(ledger))
}

func (suite *ReportTestSuite) addLedgerSuite() []controllers.Transaction {
	entries := []controllers.TransactionRequestBody{
		{Date: "2025-06-02", Debit: "1000"},
		{Date: "2025-06-15", Credit: "400"},
		{Date: "2025-06-28", Debit: "250.50"},
		// outside the reporting month
		{Date: "2025-07-01", Credit: "100"},
	}
	transactions := []controllers.Transaction{}
	for _, entry := range entries {
		transactions = append(transactions, suite.addTransactionDirect(entry))
	}
	return transactions
}

func (suite *ReportTestSuite) addTransactionDirect(body controllers.TransactionRequestBody) controllers.Transaction {
	c, rec, err := newJSONContext(suite.echo, http.MethodPost, "/", suite.userId, &body)
	assert.NoError(suite.T(), err)
	c.SetParamNames("client_id")
	c.SetParamValues(strconv.FormatInt(suite.client.ID, 10))
	assert.NoError(suite.T(), controllers.NewTransactionController(suite.Service).AddTransaction(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	var transaction controllers.Transaction
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&transaction))
	return transaction
}

func (suite *ReportTestSuite) TestMonthlyTotals() {
	c, rec, err := newJSONContext(suite.echo, http.MethodGet, "/v2/reports/monthly?year=2025&month=6", suite.userId, nil)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), controllers.NewReportController(suite.Service).Monthly(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var report controllers.MonthlyReportResponseBody
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(suite.T(), 2025, report.Year)
	assert.Equal(suite.T(), 6, report.Month)
	assert.Equal(suite.T(), "1250.5", report.TotalDebit.String())
	assert.Equal(suite.T(), "400", report.TotalCredit.String())
	// net is credit minus debit
	assert.Equal(suite.T(), "-850.5", report.Net.String())
	assert.Equal(suite.T(), 1, len(report.Clients))
	assert.Equal(suite.T(), "Seti Medical Hall", report.Clients[0].ClientName)
}

func (suite *ReportTestSuite) TestMonthlyExportCSV() {
	c, rec, err := newJSONContext(suite.echo, http.MethodGet, "/v2/reports/monthly/export?year=2025&month=6", suite.userId, nil)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), controllers.NewReportController(suite.Service).MonthlyExport(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Header().Get(echo.HeaderContentType), "text/csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(suite.T(), 2, len(lines))
	assert.Equal(suite.T(), "client_id,client_name,total_debit,total_credit,net", strings.TrimSpace(lines[0]))
	assert.Contains(suite.T(), lines[1], "Seti Medical Hall")
	assert.Contains(suite.T(), lines[1], "-850.5")
}

func (suite *ReportTestSuite) TestMonthlyRejectsBadMonth() {
	c, rec, err := newJSONContext(suite.echo, http.MethodGet, "/v2/reports/monthly?year=2025&month=13", suite.userId, nil)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), controllers.NewReportController(suite.Service).Monthly(c))
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *ReportTestSuite) TearDownSuite() {
	assert.NoError(suite.T(), clearTable(suite.Service, "transactions"))
	assert.NoError(suite.T(), clearTable(suite.Service, "clients"))
	assert.NoError(suite.T(), clearTable(suite.Service, "users"))
}

func TestReportTestSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}
