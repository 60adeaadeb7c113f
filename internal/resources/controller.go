package resources

import (
	"net/http"

	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) ListResources(ctx *gin.Context) {
	kind := Kind(ctx.Query("kind"))
	if kind != "" && !kind.IsValid() {
		response.Error(ctx, http.StatusBadRequest, "Invalid resource kind", nil)
		return
	}

	resources, err := c.service.ListResources(ctx.Request.Context(), kind, true)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list resources", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Resources retrieved", resources)
}

func (c *Controller) GetResource(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid resource ID", nil)
		return
	}

	resource, err := c.service.GetResource(ctx.Request.Context(), id)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Resource not found", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Resource retrieved", resource)
}

func (c *Controller) CreateResource(ctx *gin.Context) {
	var req CreateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resource, err := c.service.CreateResource(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create resource", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Resource created", resource)
}

func (c *Controller) UpdateResource(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid resource ID", nil)
		return
	}

	var req UpdateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resource, err := c.service.UpdateResource(ctx.Request.Context(), id, &req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to update resource", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Resource updated", resource)
}
