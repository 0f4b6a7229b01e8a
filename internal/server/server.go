package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"nft-storefront/internal/config"
	"nft-storefront/internal/handler"
	"nft-storefront/internal/middleware"
	"nft-storefront/internal/service"
)

type Server struct {
	echo            *echo.Echo
	catalogHandler  *handler.CatalogHandler
	purchaseHandler *handler.PurchaseHandler
	authHandler     *handler.AuthHandler
}

func NewServer(catalog *service.Catalog, purchases *service.Purchases, auth *service.Auth, google config.Google) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLogger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Session(auth))

	s := &Server{
		echo:            e,
		catalogHandler:  handler.NewCatalogHandler(catalog),
		purchaseHandler: handler.NewPurchaseHandler(purchases),
		authHandler:     handler.NewAuthHandler(auth, google),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	catalog := api.Group("/listings")
	catalog.GET("", s.catalogHandler.List)
	catalog.POST("/refresh", s.catalogHandler.Refresh)
	catalog.GET("/view", s.catalogHandler.View)
	catalog.PUT("/filter", s.catalogHandler.SetFilter)
	catalog.PUT("/page", s.catalogHandler.SetPage)
	catalog.POST("/search", s.catalogHandler.Search)
	catalog.GET("/:id", s.catalogHandler.Get)
	catalog.POST("/:id/buy", s.purchaseHandler.Buy)

	// -------- purchase / payment --------
	purchase := api.Group("/purchase")
	purchase.GET("/:txn", s.purchaseHandler.Status)
	purchase.GET("/:txn/wait", s.purchaseHandler.Await)
	purchase.GET("/:txn/qr", s.purchaseHandler.QRImage)
	purchase.POST("/:txn/qr/reload", s.purchaseHandler.ReloadQR)
	purchase.POST("/:txn/complete", s.purchaseHandler.Complete)
	purchase.POST("/:txn/paypal/order", s.purchaseHandler.CreatePaypalOrder)
	purchase.POST("/:txn/paypal/capture", s.purchaseHandler.CapturePaypalOrder)
	purchase.DELETE("/:txn", s.purchaseHandler.Abandon)

	// -------- auth --------
	auth := api.Group("/auth")
	auth.GET("/config", s.authHandler.Config)
	auth.POST("/google", s.authHandler.GoogleLogin)
	auth.POST("/magic/request", s.authHandler.RequestMagicLink)
	auth.POST("/magic/verify", s.authHandler.VerifyMagicLink)
	auth.GET("/me", s.authHandler.Me)
	auth.POST("/me/refresh", s.authHandler.RefreshMe)
	auth.PUT("/me", s.authHandler.UpdateProfile)
	auth.POST("/logout", s.authHandler.Logout)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
