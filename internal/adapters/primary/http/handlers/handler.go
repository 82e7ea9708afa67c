package handlers

import (
	"github.com/gin-gonic/gin"

	"template-registry-service/internal/core/services"
)

type Handler struct {
	templateSvc *services.TemplateService
}

func New(templateSvc *services.TemplateService) *Handler {
	return &Handler{templateSvc: templateSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/templates/upload-url", h.RequestUpload)
	r.GET("/templates", h.ListTemplates)
	r.GET("/templates/:id", h.GetTemplate)
	r.PATCH("/templates/:id/status", h.ChangeStatus)
	r.PATCH("/templates/:id/versions/:versionId/file", h.ConfirmUpload)
	r.DELETE("/templates/:id", h.RemoveTemplate)
	r.DELETE("/templates/:id/versions/:versionId", h.RemoveVersion)
}
