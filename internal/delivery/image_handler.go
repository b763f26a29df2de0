package delivery

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ImageHandler struct {
	useCase usecase.ImageService
	log     *logrus.Logger
}

func NewImageHandler(uc usecase.ImageService, logger *logrus.Logger) *ImageHandler {
	return &ImageHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ImageHandler) RegisterRoutes(router gin.IRouter) {
	images := router.Group("/images")
	{
		images.GET("/", h.ListImages)
		images.GET("/:id/", h.GetImage)

		writes := images.Group("", RequireAuth())
		writes.POST("/", h.CreateImage)
		writes.PUT("/:id/", h.UpdateImage)
		writes.PATCH("/:id/", h.UpdateImage)
		writes.DELETE("/:id/", h.DeleteImage)
	}
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	images, err := h.useCase.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "list images", err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	image, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "get image", err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// readForm extracts the optional "product" field and "image" file of a
// multipart body. The returned closer must be called once the upload has
// been consumed.
func readForm(c *gin.Context) (*int64, *usecase.Upload, func(), error) {
	noop := func() {}
	var productID *int64
	if raw, ok := c.GetPostForm("product"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, nil, noop, domain.NewValidationError("product", "Incorrect type. Expected pk value.")
		}
		productID = &id
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return productID, nil, noop, nil
	}
	if err != nil {
		return nil, nil, noop, domain.NewValidationError("image", "The submitted data was not a file. Check the encoding type on the form.")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, noop, err
	}
	return productID, &usecase.Upload{Filename: header.Filename, Body: file}, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

func (h *ImageHandler) CreateImage(c *gin.Context) {
	productID, upload, done, err := readForm(c)
	defer done()
	if err != nil {
		respondError(c, h.log, "create image", err)
		return
	}
	var pid int64
	if productID != nil {
		pid = *productID
	}

	image, err := h.useCase.Create(c.Request.Context(), pid, upload, actorFrom(c))
	if err != nil {
		respondError(c, h.log, "create image", err)
		return
	}
	h.log.Infof("Handler: Image created: ID %d for product %d", image.ID, image.ProductID)
	c.JSON(http.StatusCreated, image)
}

func (h *ImageHandler) UpdateImage(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	productID, upload, done, err := readForm(c)
	defer done()
	if err != nil {
		respondError(c, h.log, "update image", err)
		return
	}

	image, err := h.useCase.Update(c.Request.Context(), id, productID, upload, actorFrom(c))
	if err != nil {
		respondError(c, h.log, "update image", err)
		return
	}
	h.log.Infof("Handler: Image updated: ID %d", id)
	c.JSON(http.StatusOK, image)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, h.log, "delete image", err)
		return
	}
	h.log.Infof("Handler: Image deleted: ID %d", id)
	c.Status(http.StatusNoContent)
}
