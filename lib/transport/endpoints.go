package transport

import (
	"github.com/digikhata/khata.go/controllers"
	"github.com/digikhata/khata.go/lib/service"
	"github.com/labstack/echo/v4"
)

func RegisterEndpoints(svc *service.KhataService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc, indexHtml string) {
	cacheClient := CreateCacheClient()
	e.GET("/", controllers.NewHomeController(svc, indexHtml).Home, cacheClient.Middleware())
	e.POST("/auth", controllers.NewAuthController(svc).Auth, strictRateLimitMiddleware, logMw)
	if svc.Config.AllowAccountCreation {
		e.POST("/v2/users", controllers.NewCreateUserController(svc).CreateUser, strictRateLimitMiddleware, adminMw, logMw)
	}
	e.GET("/v2/health", controllers.NewHealthController(svc).Health, logMw)

	clientCtrl := controllers.NewClientController(svc)
	secured.POST("/v2/clients", clientCtrl.CreateClient)
	secured.GET("/v2/clients", clientCtrl.GetClients)
	secured.GET("/v2/clients/:client_id", clientCtrl.GetClient)
	secured.PUT("/v2/clients/:client_id", clientCtrl.UpdateClient)
	secured.DELETE("/v2/clients/:client_id", clientCtrl.DeleteClient)
	secured.GET("/v2/clients/:client_id/balance", controllers.NewBalanceController(svc).Balance)

	transactionCtrl := controllers.NewTransactionController(svc)
	secured.GET("/v2/clients/:client_id/transactions", transactionCtrl.GetTransactions)
	securedWithStrictRateLimit.POST("/v2/clients/:client_id/transactions", transactionCtrl.AddTransaction)
	securedWithStrictRateLimit.PUT("/v2/transactions/:id", transactionCtrl.UpdateTransaction)
	securedWithStrictRateLimit.DELETE("/v2/transactions/:id", transactionCtrl.DeleteTransaction)

	reportCtrl := controllers.NewReportController(svc)
	secured.GET("/v2/reports/monthly", reportCtrl.Monthly)
	secured.GET("/v2/reports/monthly/export", reportCtrl.MonthlyExport)

	secured.GET("/v2/transactions/stream", controllers.NewTransactionStreamController(svc).StreamTransactions)
}
