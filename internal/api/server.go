package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yizeng/gab/gin/gorm/merchant/docs"
	v1 "github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/middleware"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/config"
)

// Services are the application services the HTTP surface is built on.
type Services struct {
	Merchants v1.MerchantService
	Catalogs  v1.CatalogService
	Sessions  *v1.SessionHub
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, svcs Services) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	merchantHandler := v1.NewMerchantHandler(svcs.Merchants, svcs.Sessions)
	catalogHandler := v1.NewCatalogHandler(svcs.Catalogs)
	s.MountHandlers(merchantHandler, catalogHandler, svcs.Sessions)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(merchantHandler *v1.MerchantHandler, catalogHandler *v1.CatalogHandler, sessions *v1.SessionHub) {
	const basePath = "/api/v1"

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/actors/session", sessions.HandleSession)

		authenticated.POST("/merchants", merchantHandler.HandleSpawnMerchant)
		authenticated.GET("/merchants/:merchantID", merchantHandler.HandleGetMerchant)
		authenticated.DELETE("/merchants/:merchantID", merchantHandler.HandleDeleteMerchant)
		authenticated.GET("/merchants/:merchantID/examine", merchantHandler.HandleExamine)
		authenticated.POST("/merchants/:merchantID/interact", merchantHandler.HandleInteract)
		authenticated.POST("/merchants/:merchantID/whisper", merchantHandler.HandleWhisper)
		authenticated.POST("/merchants/:merchantID/appraise", merchantHandler.HandleAppraise)
		authenticated.POST("/merchants/:merchantID/sell", merchantHandler.HandleSell)
		authenticated.POST("/merchants/:merchantID/buy", merchantHandler.HandleBuy)
		authenticated.POST("/merchants/:merchantID/save", merchantHandler.HandleSaveMerchant)

		authenticated.GET("/catalogs/:catalogKey", catalogHandler.HandleGetCatalog)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Merchant API"
	docs.SwaggerInfo.Description = "Merchants selling catalogs to actors and buying their items back."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
