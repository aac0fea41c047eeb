package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/domain"
)

type CatalogService interface {
	Catalog(ctx context.Context, key string) (*domain.TradeCatalog, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{
		svc: svc,
	}
}

// HandleGetCatalog godoc
// @Summary      Get a catalog page
// @Tags         catalogs
// @Produce      json
// @Param        catalogKey  path      string  true   "Catalog key"
// @Param        page        query     int     false  "Page number, starting at 0"
// @Success      200         {object}  response.Catalog
// @Failure      400         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /catalogs/{catalogKey} [get]
// @Security     BearerAuth
func (h *CatalogHandler) HandleGetCatalog(ctx *gin.Context) {
	key := ctx.Param("catalogKey")

	page, err := strconv.Atoi(ctx.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid page %q", ctx.Query("page"))))
		return
	}

	catalog, err := h.svc.Catalog(ctx.Request.Context(), key)
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("HandleGetCatalog -> h.svc.Catalog -> %w", err)))
		return
	}

	if catalog.Len() == 0 {
		response.RenderErr(ctx, response.ErrNotFound("catalog", "catalogKey", key))
		return
	}

	if page >= catalog.PageCount() {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("page %d is past the last page %d", page, catalog.PageCount()-1)))
		return
	}

	ctx.JSON(http.StatusOK, response.Catalog{
		Key:       catalog.Key(),
		Page:      page,
		PageCount: catalog.PageCount(),
		PageSize:  domain.TradeCatalogPageSize,
		Items:     catalog.Page(page),
	})
}
