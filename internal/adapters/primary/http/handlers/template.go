package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"template-registry-service/internal/adapters/primary/http/dto"
)

func (h *Handler) RequestUpload(c *gin.Context) {
	var req dto.RequestUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.templateSvc.RequestUpload(c.Request.Context(), req.Name, req.Description, req.FileName)
	if err != nil {
		log.WithError(err).WithField("template", req.Name).Error("request upload failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadGrantResponse(grant))
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.templateSvc.ListAll(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list templates failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.TemplateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, dto.ToTemplateResponse(t))
	}

	c.JSON(http.StatusOK, dto.ListTemplatesResponse{
		Items: items,
		Total: len(items),
	})
}

func (h *Handler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	if raw := c.Query("versionId"); raw != "" {
		versionID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
			return
		}
		_, v, err := h.templateSvc.GetVersion(c.Request.Context(), id, versionID)
		if err != nil {
			mapDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToTemplateVersionResponse(v))
		return
	}

	t, err := h.templateSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(t))
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var versionID *uuid.UUID
	if raw := c.Query("versionId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
			return
		}
		versionID = &parsed
	}

	t, err := h.templateSvc.ChangeStatus(c.Request.Context(), id, req.IsActive, req.Reason, versionID)
	if err != nil {
		log.WithError(err).WithField("template_id", id).Error("change status failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(t))
}

func (h *Handler) ConfirmUpload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	versionID, err := uuid.Parse(c.Param("versionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	var req dto.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.templateSvc.ConfirmUpload(c.Request.Context(), id, versionID, req.FileSize)
	if err != nil {
		log.WithError(err).WithField("template_id", id).Error("confirm upload failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(t))
}

func (h *Handler) RemoveTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	if err := h.templateSvc.RemoveTemplate(c.Request.Context(), id); err != nil {
		log.WithError(err).WithField("template_id", id).Error("remove template failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveVersion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}
	versionID, err := uuid.Parse(c.Param("versionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version id"})
		return
	}

	if err := h.templateSvc.RemoveVersion(c.Request.Context(), id, versionID); err != nil {
		log.WithError(err).WithField("template_id", id).Error("remove version failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
