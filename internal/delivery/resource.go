package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Resource serves list, detail, create, replace, patch and delete for one
// entity backed by a usecase.Service. Writes go through RequireAuth.
type Resource[T any] struct {
	name     string
	service  usecase.Service[T]
	pageSize int
	log      *logrus.Logger
}

func NewResource[T any](name string, svc usecase.Service[T], logger *logrus.Logger) *Resource[T] {
	return &Resource[T]{
		name:    name,
		service: svc,
		log:     logger,
	}
}

// Paginated makes List answer with pages of size records.
func (h *Resource[T]) Paginated(size int) *Resource[T] {
	h.pageSize = size
	return h
}

func (h *Resource[T]) RegisterRoutes(router gin.IRouter, path string) {
	group := router.Group(path)
	{
		group.GET("/", h.List)
		group.GET("/:id/", h.Get)

		writes := group.Group("", RequireAuth())
		writes.POST("/", h.Create)
		writes.PUT("/:id/", h.Replace)
		writes.PATCH("/:id/", h.Patch)
		writes.DELETE("/:id/", h.Delete)
	}
}

func (h *Resource[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "list "+h.name, err)
		return
	}
	if h.pageSize > 0 {
		writePage(c, h.log, items, h.pageSize)
		return
	}
	h.log.Debugf("Handler: Listed %d %s records", len(items), h.name)
	c.JSON(http.StatusOK, items)
}

func (h *Resource[T]) Get(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "get "+h.name, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Resource[T]) Create(c *gin.Context) {
	var in T
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.log, "create "+h.name, bindError(err))
		return
	}
	created, err := h.service.Create(c.Request.Context(), &in, actorFrom(c))
	if err != nil {
		respondError(c, h.log, "create "+h.name, err)
		return
	}
	h.log.Infof("Handler: Created %s", h.name)
	c.JSON(http.StatusCreated, created)
}

// Replace handles PUT: the body replaces every writable field.
func (h *Resource[T]) Replace(c *gin.Context) {
	h.update(c, func(rec *T) error {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			return bindError(err)
		}
		*rec = in
		return nil
	})
}

// Patch handles PATCH: only the fields present in the body change.
func (h *Resource[T]) Patch(c *gin.Context) {
	h.update(c, func(rec *T) error {
		if err := c.ShouldBindJSON(rec); err != nil {
			return bindError(err)
		}
		return nil
	})
}

func (h *Resource[T]) update(c *gin.Context, apply func(*T) error) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, actorFrom(c), apply)
	if err != nil {
		respondError(c, h.log, "update "+h.name, err)
		return
	}
	h.log.Infof("Handler: Updated %s ID %d", h.name, id)
	c.JSON(http.StatusOK, updated)
}

func (h *Resource[T]) Delete(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondError(c, h.log, "delete "+h.name, err)
		return
	}
	h.log.Infof("Handler: Deleted %s ID %d", h.name, id)
	c.Status(http.StatusNoContent)
}
