package routes

import (
	"tableserve/configs"
	"tableserve/controllers"
	"tableserve/entity"
	"tableserve/middlewares"
	"tableserve/repository"
	"tableserve/services"
	"tableserve/ws"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, hub *ws.Hub) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()

	// Repositories
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	tableSvc := services.NewTableService(db, tableRepo)
	menuSvc := services.NewMenuService(menuRepo)
	orderSvc := services.NewOrderService(db, orderRepo, tableSvc, menuSvc)
	orderSvc.Events = hub
	kitchenSvc := services.NewKitchenService(db, orderRepo)
	kitchenSvc.Events = hub
	paySvc := services.NewPaymentService(db, orderRepo, menuRepo, tableSvc, services.NewHTTPGateway(cfg.GatewayBaseURL))
	paySvc.Events = hub

	// Controllers
	authCtrl := controllers.NewAuthController(userRepo, cfg)
	tableCtrl := controllers.NewTableController(tableSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	kitchenCtrl := controllers.NewKitchenController(kitchenSvc)
	payCtrl := controllers.NewPaymentController(paySvc)
	publicCtrl := controllers.NewPublicController(menuSvc, tableSvc)

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/login", authCtrl.Login)
		a.GET("/me", middlewares.AuthMiddleware(cfg.JWTSecret), authCtrl.Me)
	}

	// Diner surface (PIN gated inside the services, no JWT)
	pub := r.Group("/public")
	{
		pub.GET("/menu/:restaurantId", publicCtrl.MenuByRestaurant)
		pub.POST("/session/validate", publicCtrl.ValidateSession)
		pub.POST("/order-status", orderCtrl.StatusForTable)
		pub.POST("/payments/initiate", payCtrl.Initiate)
		pub.POST("/payments/verify", payCtrl.Verify)
	}
	r.POST("/orders", orderCtrl.Place)

	// Waiter
	waiter := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleWaiter, entity.RoleManager, entity.RoleAdmin))
	{
		waiter.GET("/tables", tableCtrl.List)
		waiter.POST("/tables/:id/open", tableCtrl.Open)
		waiter.GET("/waiter/ready", kitchenCtrl.ReadyList)
		waiter.PATCH("/orders/items/:itemId/served", kitchenCtrl.Served)
		waiter.PATCH("/orders/:orderId/close", payCtrl.Close)
	}

	// Chef
	chef := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleChef))
	{
		chef.GET("/kitchen/pending", kitchenCtrl.Pending)
		chef.PATCH("/orders/items/:itemId/claim", kitchenCtrl.Claim)
		chef.PATCH("/orders/items/:itemId/ready", kitchenCtrl.Ready)
	}

	// Manager
	manager := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret, entity.RoleManager, entity.RoleAdmin))
	{
		manager.POST("/tables", tableCtrl.Create)
		manager.DELETE("/tables/:id", tableCtrl.Archive)
		manager.GET("/orders/open", orderCtrl.Open)
		manager.GET("/orders/suspicious", orderCtrl.Suspicious)
		manager.PATCH("/orders/:orderId/approve", orderCtrl.Approve)
		manager.PATCH("/orders/:orderId/reject", orderCtrl.Reject)
		manager.PATCH("/orders/:orderId/reject-new", orderCtrl.RejectNewItems)
		manager.PATCH("/orders/items/:itemId/cancel", orderCtrl.CancelItem)
	}

	// Realtime
	events := ws.NewEventServer(hub, tableSvc)
	r.GET("/ws/staff", middlewares.WSAuthMiddleware(cfg.JWTSecret), events.HandleStaff)
	r.GET("/ws/table", events.HandleTable)
}
