package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"refuge/internal/auth"
	"refuge/internal/domain"
	"refuge/internal/service"
)

// Services прикладные сервисы, которые обслуживает HTTP-слой
type Services struct {
	Products      *service.ProductService
	Carts         *service.CartService
	Orders        *service.OrderService
	Animals       *service.AnimalService
	Requests      *service.RequestService
	Notifications *service.NotificationService
	Users         *service.UserService
}

// Options параметры сервера
type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
}

type Server struct {
	engine   *gin.Engine
	verifier *auth.Verifier
	log      zerolog.Logger
	Services
}

func NewServer(svcs Services, verifier *auth.Verifier, opts Options) *Server {
	r := gin.New()
	r.ContextWithFallback = true
	s := &Server{engine: r, verifier: verifier, log: opts.Logger, Services: svcs}
	r.Use(requestID(), requestLogger(s.log), recovery(s.log), corsMiddleware(opts.CORSOrigins))
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET(":id", s.getProduct)

		animals := v1.Group("/animals")
		animals.GET("", s.listAnimals)
		animals.GET(":id", s.getAnimal)
	}

	user := v1.Group("", s.authRequired)
	{
		user.GET("/me", s.getMe)
		user.PUT("/me", s.updateMe)

		cart := user.Group("/cart")
		cart.GET("", s.getCart)
		cart.DELETE("", s.clearCart)
		cart.POST("/items", s.addCartItem)
		cart.PUT("/items/:product_id", s.setCartItem)
		cart.DELETE("/items/:product_id", s.removeCartItem)

		user.POST("/checkout", s.checkout)

		orders := user.Group("/orders")
		orders.GET("", s.listMyOrders)
		orders.GET(":number", s.getOrder)

		user.POST("/animals", s.createAnimal)

		for _, kind := range []domain.RequestKind{domain.RequestAdoption, domain.RequestFoster} {
			g := user.Group("/" + string(kind) + "-requests")
			g.POST("", s.createRequest(kind))
			g.GET("", s.listRequests(kind))
			g.GET(":id", s.getRequest(kind))
			g.DELETE(":id", s.deleteRequest(kind))
		}

		notes := user.Group("/notifications")
		notes.GET("", s.listNotifications)
		notes.POST("/read-all", s.markAllNotificationsRead)
		notes.POST("/:id/read", s.markNotificationRead)
	}

	admin := v1.Group("/admin", s.authRequired, s.adminOnly)
	{
		admin.POST("/products", s.createProduct)
		admin.GET("/products/export", s.exportProducts)
		admin.PUT("/products/:id", s.updateProduct)
		admin.DELETE("/products/:id", s.deleteProduct)

		admin.GET("/orders", s.listAllOrders)
		admin.GET("/orders/export", s.exportOrders)
		admin.PATCH("/orders/:number/status", s.updateOrderStatus)

		admin.PUT("/animals/:id", s.updateAnimal)
		admin.DELETE("/animals/:id", s.deleteAnimal)

		admin.PATCH("/adoption-requests/:id/status", s.decideRequest(domain.RequestAdoption))
		admin.PATCH("/foster-requests/:id/status", s.decideRequest(domain.RequestFoster))

		admin.DELETE("/users/:id", s.deleteUser)
	}
}
