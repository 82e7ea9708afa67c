package dto

import (
	"time"

	"github.com/google/uuid"

	"template-registry-service/internal/core/domain"
)

type RequestUploadRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	FileName    string `json:"file_name" binding:"required"`
}

type ChangeStatusRequest struct {
	IsActive bool   `json:"is_active"`
	Reason   string `json:"reason"`
}

type ConfirmUploadRequest struct {
	FileSize int64 `json:"file_size"`
}

type UploadGrantResponse struct {
	TemplateID    uuid.UUID `json:"template_id"`
	TemplateName  string    `json:"template_name"`
	VersionID     uuid.UUID `json:"version_id"`
	VersionNumber int       `json:"version_number"`
	UploadURL     string    `json:"upload_url"`
	ExpiresAt     time.Time `json:"expires_at"`
	StoragePath   string    `json:"storage_path"`
	CreatedAt     time.Time `json:"created_at"`
}

type StatusHistoryResponse struct {
	IsActive  bool      `json:"is_active"`
	Reason    string    `json:"reason"`
	System    bool      `json:"system"`
	ChangedAt time.Time `json:"changed_at"`
}

type TemplateVersionResponse struct {
	ID                 uuid.UUID               `json:"id"`
	VersionNumber      int                     `json:"version_number"`
	FileName           string                  `json:"file_name"`
	FileSize           int64                   `json:"file_size"`
	StoragePath        string                  `json:"storage_path"`
	UploadURL          string                  `json:"upload_url"`
	UploadURLExpiresAt time.Time               `json:"upload_url_expires_at"`
	IsActive           bool                    `json:"is_active"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
	StatusHistory      []StatusHistoryResponse `json:"status_history"`
}

type TemplateResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	Version       int                       `json:"version"`
	IsActive      bool                      `json:"is_active"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Versions      []TemplateVersionResponse `json:"versions"`
	StatusHistory []StatusHistoryResponse   `json:"status_history"`
}

type ListTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
	Total int                `json:"total"`
}

func ToUploadGrantResponse(g *domain.UploadGrant) UploadGrantResponse {
	return UploadGrantResponse{
		TemplateID:    g.TemplateID,
		TemplateName:  g.TemplateName,
		VersionID:     g.VersionID,
		VersionNumber: g.VersionNumber,
		UploadURL:     g.UploadURL,
		ExpiresAt:     g.ExpiresAt,
		StoragePath:   g.StoragePath,
		CreatedAt:     g.CreatedAt,
	}
}

func ToTemplateResponse(t *domain.Template) TemplateResponse {
	versions := t.Versions()
	items := make([]TemplateVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, ToTemplateVersionResponse(v))
	}
	return TemplateResponse{
		ID:            t.ID(),
		Name:          t.Name(),
		Description:   t.Description(),
		Version:       t.Version(),
		IsActive:      t.IsActive(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
		Versions:      items,
		StatusHistory: toStatusHistoryResponses(t.StatusHistory()),
	}
}

func ToTemplateVersionResponse(v *domain.TemplateVersion) TemplateVersionResponse {
	return TemplateVersionResponse{
		ID:                 v.ID(),
		VersionNumber:      v.VersionNumber(),
		FileName:           v.FileName(),
		FileSize:           v.FileSize(),
		StoragePath:        v.StoragePath(),
		UploadURL:          v.UploadURL(),
		UploadURLExpiresAt: v.UploadURLExpiresAt(),
		IsActive:           v.IsActive(),
		CreatedAt:          v.CreatedAt(),
		UpdatedAt:          v.UpdatedAt(),
		StatusHistory:      toStatusHistoryResponses(v.StatusHistory()),
	}
}

func toStatusHistoryResponses(entries []domain.StatusHistoryEntry) []StatusHistoryResponse {
	out := make([]StatusHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, StatusHistoryResponse{
			IsActive:  e.IsActive,
			Reason:    e.Reason,
			System:    e.System,
			ChangedAt: e.ChangedAt,
		})
	}
	return out
}
