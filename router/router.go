package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-dashboard/config"
	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/hub"
	"github.com/yeremiapane/restaurant-dashboard/middlewares"
	"github.com/yeremiapane/restaurant-dashboard/services"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, session *services.Session, h *hub.Hub, authCtrl *controllers.AuthController) *gin.Engine {
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))
	r.Use(middlewares.NewRateLimiter(cfg.RateLimit).RateLimit())

	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db)
	customerCtrl := controllers.NewCustomerController(db)
	teamCtrl := controllers.NewTeamController(db)
	settingsCtrl := controllers.NewSettingsController(db)
	metricsCtrl := controllers.NewMetricsController(db)
	dashboardCtrl := controllers.NewDashboardController(session)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter().RateLimit())
	{
		public.POST("/login", authCtrl.Login)
	}

	authMw := middlewares.AuthMiddleware(cfg.JWTSecret)

	// websocket clients pass the token as ?token=
	r.GET("/ws", authMw, controllers.HubHandler(h))

	// ----------------------------------------------------------------
	//                      BACKEND API
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(authMw)
	{
		api.GET("/profile", authCtrl.GetProfile)

		// TABLE
		api.GET("/tables", tableCtrl.GetAllTables)
		api.POST("/tables", tableCtrl.CreateTable)
		api.GET("/tables/:table_id", tableCtrl.GetTableByID)
		api.PATCH("/tables/:table_id", tableCtrl.UpdateTableStatus)
		api.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

		// RESERVATION
		api.GET("/reservations", reservationCtrl.GetAllReservations)
		api.GET("/reservations/export", reservationCtrl.ExportReservations)
		api.POST("/reservations", reservationCtrl.CreateReservation)
		api.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
		api.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)

		// CUSTOMER
		api.GET("/customers", customerCtrl.GetAllCustomers)
		api.GET("/customers/search", customerCtrl.SearchCustomers)
		api.POST("/customers", customerCtrl.CreateCustomer)
		api.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
		api.PATCH("/customers/:customer_id", customerCtrl.UpdateCustomer)

		// TEAM
		api.GET("/team", teamCtrl.GetTeam)
		api.GET("/team/export", teamCtrl.ExportTeam)
		api.POST("/team", teamCtrl.CreateMember)
		api.PATCH("/team/:member_id", teamCtrl.UpdateMember)

		// SETTINGS
		api.GET("/settings", settingsCtrl.GetSettings)
		api.PUT("/settings", settingsCtrl.UpdateSettings)

		api.GET("/metrics/summary", metricsCtrl.GetSummary)
	}

	// ----------------------------------------------------------------
	//                      DASHBOARD SESSION
	// ----------------------------------------------------------------
	dash := r.Group("/dashboard")
	dash.Use(authMw)
	{
		dash.POST("/refresh", dashboardCtrl.Refresh)

		dash.GET("/tables", dashboardCtrl.GetTables)
		dash.GET("/tables/available", dashboardCtrl.AvailableTables)
		dash.GET("/tables/export", dashboardCtrl.ExportTables)
		dash.POST("/link-mode", dashboardCtrl.EnterLinkMode)
		dash.DELETE("/link-mode", dashboardCtrl.ExitLinkMode)
		dash.POST("/tables/:table_id/toggle", dashboardCtrl.ToggleSelection)
		dash.POST("/links", dashboardCtrl.LinkTables)
		dash.DELETE("/links/:table_id", dashboardCtrl.UnlinkTables)

		dash.GET("/reservations", dashboardCtrl.GetReservations)
		dash.POST("/reservations", dashboardCtrl.CreateReservation)
		dash.PATCH("/reservations/:reservation_id", dashboardCtrl.EditReservation)
		dash.POST("/reservations/:reservation_id/select", dashboardCtrl.SelectReservation)
		dash.POST("/reservations/:reservation_id/status", dashboardCtrl.SetStatus)
		dash.POST("/bill", dashboardCtrl.ConfirmBill)
		dash.DELETE("/bill", dashboardCtrl.CancelBill)

		dash.GET("/guests", dashboardCtrl.SearchGuests)
	}

	return r
}
