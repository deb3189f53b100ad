package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/eventhive/ticketing-api/docs"
	v1 "github.com/eventhive/ticketing-api/internal/api/handler/v1"
	"github.com/eventhive/ticketing-api/internal/api/middleware"
	"github.com/eventhive/ticketing-api/internal/config"
	"github.com/eventhive/ticketing-api/internal/payment"
	"github.com/eventhive/ticketing-api/internal/payment/paystack"
	"github.com/eventhive/ticketing-api/internal/repository"
	"github.com/eventhive/ticketing-api/internal/repository/dao"
	"github.com/eventhive/ticketing-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	gateway := paystack.NewClient(&paystack.Config{
		BaseURL:   conf.Paystack.BaseURL,
		SecretKey: conf.Paystack.SecretKey,
	})
	notifier := service.LogNotifier{}

	orderHandler := s.initOrderHandler(db, gateway, notifier)
	paymentHandler := s.initPaymentHandler(db, notifier)
	transferHandler := s.initTransferHandler(db, gateway)
	s.MountHandlers(orderHandler, paymentHandler, transferHandler)

	return s
}

func (s *Server) initOrderHandler(db *gorm.DB, gateway payment.Gateway, notifier service.Notifier) *v1.OrderHandler {
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	ticketRepo := repository.NewTicketTypeRepository(dao.NewTicketTypeDAO(db))
	svc := service.NewOrderService(orderRepo, ticketRepo, gateway, notifier, s.Config.Settlement)

	return v1.NewOrderHandler(svc)
}

func (s *Server) initPaymentHandler(db *gorm.DB, notifier service.Notifier) *v1.PaymentHandler {
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	svc := service.NewSettlementService(orderRepo, notifier)

	return v1.NewPaymentHandler(svc, s.Config.Paystack.SecretKey)
}

func (s *Server) initTransferHandler(db *gorm.DB, gateway payment.Gateway) *v1.TransferHandler {
	transferRepo := repository.NewTransferRepository(dao.NewTransferDAO(db))
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	svc := service.NewTransferService(transferRepo, orderRepo, gateway, s.Config.Settlement)

	return v1.NewTransferHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(orderHandler *v1.OrderHandler, paymentHandler *v1.PaymentHandler, transferHandler *v1.TransferHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.GET("/events/:eventID/tickets", orderHandler.HandleListEventTickets)

		// Provider-originated; authenticated by signature, not JWT.
		public.POST("/payments/callback", paymentHandler.HandleCallback)
	}

	orders := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		orders.POST("/orders", orderHandler.HandleCreateOrder)
		orders.GET("/orders", orderHandler.HandleListMyOrders)
		orders.GET("/orders/:orderID", orderHandler.HandleGetOrder)
	}

	transfers := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		transfers.GET("/transfers/balance", transferHandler.HandleGetBalance)
		transfers.GET("/transfers", transferHandler.HandleListMyTransfers)
		transfers.POST("/transfers", transferHandler.HandleCreateTransfer)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Ticket Settlement API"
	docs.SwaggerInfo.Description = "Order settlement, payment reconciliation and organizer payouts."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
