package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/digikhata/khata.go/lib/responses"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ReportController : Report controller struct
type ReportController struct {
	svc *service.KhataService
}

func NewReportController(svc *service.KhataService) *ReportController {
	return &ReportController{svc: svc}
}

type MonthlyReportResponseBody struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Net         decimal.Decimal `json:"net"`
	Clients     []MonthlyClient `json:"clients"`
}

type MonthlyClient struct {
	ClientID    int64           `json:"client_id"`
	ClientName  string          `json:"client_name"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

func reportPeriod(c echo.Context) (year, month int, err error) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())
	if v := c.QueryParam("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, err
		}
	}
	if v := c.QueryParam("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, err
		}
	}
	return year, month, nil
}

// Monthly godoc
// @Summary      Monthly report
// @Description  Returns debit/credit totals for the month plus a per-client breakdown. Net is credit minus debit.
// @Accept       json
// @Produce      json
// @Tags         Report
// @Param        year   query  int  false  "Gregorian year"   default(current)
// @Param        month  query  int  false  "Month, 1 to 12"   default(current)
// @Success      200  {object}  MonthlyReportResponseBody
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/reports/monthly [get]
// @Security     OAuth2Password
func (controller *ReportController) Monthly(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	year, month, err := reportPeriod(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	totals, err := controller.svc.MonthlyTotals(c.Request().Context(), userId, year, month)
	if err != nil {
		c.Logger().Errorf("Failed to build monthly report: user_id:%v error: %v", userId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	rows, err := controller.svc.MonthlyClientRows(c.Request().Context(), userId, year, month)
	if err != nil {
		c.Logger().Errorf("Failed to build monthly report: user_id:%v error: %v", userId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	clients := make([]MonthlyClient, len(rows))
	for i, row := range rows {
		clients[i] = MonthlyClient{
			ClientID:    row.ClientID,
			ClientName:  row.ClientName,
			TotalDebit:  row.TotalDebit,
			TotalCredit: row.TotalCredit,
		}
	}
	return c.JSON(http.StatusOK, &MonthlyReportResponseBody{
		Year:        totals.Year,
		Month:       totals.Month,
		TotalDebit:  totals.TotalDebit,
		TotalCredit: totals.TotalCredit,
		Net:         totals.Net,
		Clients:     clients,
	})
}

// MonthlyExport godoc
// @Summary      Monthly report as CSV
// @Description  Streams the per-client monthly breakdown as a CSV download
// @Produce      text/csv
// @Tags         Report
// @Param        year   query  int  false  "Gregorian year"   default(current)
// @Param        month  query  int  false  "Month, 1 to 12"   default(current)
// @Success      200
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v2/reports/monthly/export [get]
// @Security     OAuth2Password
func (controller *ReportController) MonthlyExport(c echo.Context) error {
	userId := c.Get("UserID").(int64)
	year, month, err := reportPeriod(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	rows, err := controller.svc.MonthlyClientRows(c.Request().Context(), userId, year, month)
	if err != nil {
		c.Logger().Errorf("Failed to export monthly report: user_id:%v error: %v", userId, err)
		sentry.CaptureException(err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("monthly-%04d-%02d.csv", year, month)))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"client_id", "client_name", "total_debit", "total_credit", "net"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.ClientID, 10),
			row.ClientName,
			row.TotalDebit.String(),
			row.TotalCredit.String(),
			row.TotalCredit.Sub(row.TotalDebit).String(),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
