package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/config"
	"github.com/yeremiapane/ronda-app/controllers"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/middlewares"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/services"
)

var (
	anyStaff  = []models.Role{models.RoleAdmin, models.RoleMozo, models.RoleBarman, models.RoleCocinero}
	floorRole = []models.Role{models.RoleAdmin, models.RoleMozo}
	adminOnly = []models.Role{models.RoleAdmin}
)

func SetupRouter(cfg *config.Config, floor *services.FloorService, hub *kds.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.IsProduction()))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigin))
	if cfg.RateLimitPerSecond > 0 {
		r.Use(middlewares.NewRateLimiter(cfg.RateLimitPerSecond).RateLimit())
	}

	userCtrl := controllers.NewUserController(floor)
	tableCtrl := controllers.NewTableController(floor)
	zoneCtrl := controllers.NewZoneController(floor)
	menuCtrl := controllers.NewMenuController(floor)
	orderCtrl := controllers.NewOrderController(floor)
	rondaCtrl := controllers.NewRondaController(floor)
	groupCtrl := controllers.NewTableGroupController(floor)
	reservationCtrl := controllers.NewReservationController(floor)
	paymentCtrl := controllers.NewPaymentController(floor, cfg.BusinessName)
	adminCtrl := controllers.NewAdminController(floor)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)

	// browsers cannot send headers on the websocket handshake
	api.GET("/ws", middlewares.WebSocketAuthMiddleware(), controllers.KDSHandler(hub))

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := api.Group("")
	auth.Use(middlewares.AuthMiddleware())

	staff := auth.Group("", middlewares.RequireRoles(anyStaff...))
	{
		staff.POST("/logout", userCtrl.Logout)
		staff.GET("/profile", userCtrl.GetProfile)

		staff.GET("/tables", tableCtrl.GetAllTables)
		staff.GET("/tables/:id", tableCtrl.GetTableByID)
		staff.GET("/zones", zoneCtrl.GetAllZones)
		staff.GET("/products", menuCtrl.GetAllProducts)
		staff.GET("/orders", orderCtrl.GetActiveOrders)
		staff.PATCH("/orders/:id/status", orderCtrl.UpdateOrderStatus)
	}

	// mozo floor work
	floorGroup := auth.Group("", middlewares.RequireRoles(floorRole...))
	{
		floorGroup.PATCH("/tables/:id/status", tableCtrl.UpdateTableStatus)
		floorGroup.GET("/tables/:id/active-ronda", tableCtrl.GetActiveRonda)
		floorGroup.POST("/tables/:id/close", tableCtrl.CloseTable)

		floorGroup.POST("/orders", orderCtrl.CreateOrder)

		floorGroup.GET("/rondas", rondaCtrl.GetRondas)
		floorGroup.GET("/rondas/:id", rondaCtrl.GetRonda)
		floorGroup.POST("/rondas/:id/close", rondaCtrl.CloseRonda)

		floorGroup.GET("/table-groups", groupCtrl.GetActiveGroups)
		floorGroup.POST("/table-groups", groupCtrl.GroupTables)
		floorGroup.DELETE("/table-groups/:id", groupCtrl.Ungroup)

		floorGroup.GET("/reservations", reservationCtrl.GetReservations)
		floorGroup.POST("/reservations", reservationCtrl.CreateReservation)
		floorGroup.GET("/reservations/:id", reservationCtrl.GetReservation)
		floorGroup.PATCH("/reservations/:id/status", reservationCtrl.UpdateReservationStatus)
		floorGroup.POST("/reservations/:id/seat", reservationCtrl.SeatReservation)
		floorGroup.DELETE("/reservations/:id", reservationCtrl.DeleteReservation)

		floorGroup.GET("/payments", paymentCtrl.GetPayments)
		floorGroup.GET("/payments/:id", paymentCtrl.GetPayment)
		floorGroup.GET("/payments/:id/receipt", paymentCtrl.DownloadReceipt)
	}

	admin := auth.Group("", middlewares.RequireRoles(adminOnly...))
	{
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.PUT("/tables/:id", tableCtrl.UpdateTable)
		admin.PATCH("/tables/:id/position", tableCtrl.UpdateTablePosition)
		admin.DELETE("/tables/:id", tableCtrl.DeleteTable)

		admin.POST("/zones", zoneCtrl.CreateZone)
		admin.PUT("/zones/:id", zoneCtrl.UpdateZone)
		admin.DELETE("/zones/:id", zoneCtrl.DeleteZone)

		admin.POST("/products", menuCtrl.CreateProduct)
		admin.PATCH("/products/:id", menuCtrl.UpdateProduct)

		admin.GET("/users", userCtrl.GetAllUsers)
		admin.POST("/users", userCtrl.CreateUser)
		admin.PUT("/users/:id", userCtrl.UpdateUser)
		admin.DELETE("/users/:id", userCtrl.DeleteUser)

		admin.GET("/admin/stats", adminCtrl.GetDashboardStats)
	}

	return r
}
