package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           3,
	Message:        "not found",
	HttpStatusCode: 404,
}

var InvalidAmountError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "invalid amount: either debit or credit must be greater than 0",
	HttpStatusCode: 400,
}

var InvalidSortError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "invalid sort: field must be date or created_at, order must be asc or desc",
	HttpStatusCode: 400,
}

var AccountDeactivatedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "Account has been suspended. Please contact support for further assistance.",
	HttpStatusCode: 401,
}

func isErrAllowedForSentry(err error) bool {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return true
	}
	msg, ok := he.Message.(echo.Map)
	if !ok {
		return true
	}
	// auth failures are noise, not defects
	return msg["code"] != 1
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
