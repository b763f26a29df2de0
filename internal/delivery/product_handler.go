package delivery

import (
	"net/http"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProductHandler adds the product-specific read routes to the generic
// product resource.
type ProductHandler struct {
	*Resource[domain.Product]
	useCase usecase.ProductService
	images  usecase.ImageService
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductService, images usecase.ImageService, pageSize int, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		Resource: NewResource[domain.Product]("product", uc, logger).Paginated(pageSize),
		useCase:  uc,
		images:   images,
		log:      logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	h.Resource.RegisterRoutes(router, "/products")
	router.GET("/products/by-child-category/:slug/", h.ListByCategorySlug)
	router.GET("/products/:id/images/", h.ListImages)
}

func (h *ProductHandler) ListByCategorySlug(c *gin.Context) {
	slug := c.Param("slug")
	products, err := h.useCase.ListByCategorySlug(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.log, "list products by category slug", err)
		return
	}
	h.log.Debugf("Handler: Listed %d products for category slug '%s'", len(products), slug)
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ListImages(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	images, err := h.images.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "list product images", err)
		return
	}
	c.JSON(http.StatusOK, images)
}
