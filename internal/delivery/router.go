package delivery

import (
	"net/http"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Cars       usecase.Service[domain.Car]
	Categories usecase.Service[domain.Category]
	Products   usecase.ProductService
	Images     usecase.ImageService
	Auth       usecase.AuthService
}

type RouterConfig struct {
	PageSize  int
	MediaURL  string
	MediaRoot string
	Gatherer  prometheus.Gatherer
}

func NewRouter(svc Services, cfg RouterConfig, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	if cfg.MediaRoot != "" {
		router.Static(cfg.MediaURL, cfg.MediaRoot)
	}

	api := router.Group("", Authenticate(svc.Auth, logger))
	NewResource[domain.Car]("car", svc.Cars, logger).RegisterRoutes(api, "/cars")
	NewResource[domain.Category]("category", svc.Categories, logger).RegisterRoutes(api, "/categories")
	NewProductHandler(svc.Products, svc.Images, cfg.PageSize, logger).RegisterRoutes(api)
	NewImageHandler(svc.Images, logger).RegisterRoutes(api)
	NewAuthHandler(svc.Auth, logger).RegisterRoutes(api)
	logger.Info("API Routes registered.")

	return router
}
