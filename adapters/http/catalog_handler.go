package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
)

// CatalogHandler serves list and add for one catalog collection.
type CatalogHandler[T catalog.Entry] struct {
	useCase *catalogUC.UseCase[T]
}

func NewCatalogHandler[T catalog.Entry](uc *catalogUC.UseCase[T]) *CatalogHandler[T] {
	return &CatalogHandler[T]{useCase: uc}
}

func (h *CatalogHandler[T]) List(c *gin.Context) {
	docs, err := h.useCase.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *CatalogHandler[T]) Add(c *gin.Context) {
	doc, err := bindDocument(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.useCase.Add(c.Request.Context(), doc); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: h.useCase.Kind().Noun + " added successfully"})
}
