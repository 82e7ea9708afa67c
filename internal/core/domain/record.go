package domain

import (
	"time"

	"github.com/google/uuid"
)

// VersionRecord is the persisted shape of a TemplateVersion, including its
// embedded status history.
type VersionRecord struct {
	ID                 uuid.UUID            `json:"id"`
	VersionNumber      int                  `json:"version_number"`
	FileName           string               `json:"file_name"`
	FileSize           int64                `json:"file_size"`
	StoragePath        string               `json:"storage_path"`
	UploadURL          string               `json:"upload_url"`
	UploadURLExpiresAt time.Time            `json:"upload_url_expires_at"`
	IsActive           bool                 `json:"is_active"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	StatusHistory      []StatusHistoryEntry `json:"status_history"`
}

// TemplateRecord is the full persisted shape of a Template. Histories are
// always stored embedded in their owning entity, never separately.
type TemplateRecord struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Version       int                  `json:"version"`
	IsActive      bool                 `json:"is_active"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	Versions      []VersionRecord      `json:"versions"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
}

// Snapshot exports the aggregate for persistence.
func (t *Template) Snapshot() TemplateRecord {
	versions := make([]VersionRecord, 0, len(t.versions))
	for _, v := range t.versions {
		versions = append(versions, VersionRecord{
			ID:                 v.id,
			VersionNumber:      v.versionNumber,
			FileName:           v.fileName,
			FileSize:           v.fileSize,
			StoragePath:        v.storagePath,
			UploadURL:          v.uploadURL,
			UploadURLExpiresAt: v.uploadURLExpiresAt,
			IsActive:           v.isActive,
			CreatedAt:          v.createdAt,
			UpdatedAt:          v.updatedAt,
			StatusHistory:      v.StatusHistory(),
		})
	}
	return TemplateRecord{
		ID:            t.id,
		Name:          t.name,
		Description:   t.description,
		Version:       t.version,
		IsActive:      t.isActive,
		CreatedAt:     t.createdAt,
		UpdatedAt:     t.updatedAt,
		Versions:      versions,
		StatusHistory: t.StatusHistory(),
	}
}

// RehydrateTemplate rebuilds an aggregate from its persisted shape. It trusts
// the record; invariants were enforced when the state was produced.
func RehydrateTemplate(rec TemplateRecord) *Template {
	versions := make([]*TemplateVersion, 0, len(rec.Versions))
	for _, vr := range rec.Versions {
		history := make([]StatusHistoryEntry, len(vr.StatusHistory))
		copy(history, vr.StatusHistory)
		versions = append(versions, &TemplateVersion{
			id:                 vr.ID,
			versionNumber:      vr.VersionNumber,
			fileName:           vr.FileName,
			fileSize:           vr.FileSize,
			storagePath:        vr.StoragePath,
			uploadURL:          vr.UploadURL,
			uploadURLExpiresAt: vr.UploadURLExpiresAt,
			isActive:           vr.IsActive,
			createdAt:          vr.CreatedAt,
			updatedAt:          vr.UpdatedAt,
			statusHistory:      history,
		})
	}
	history := make([]StatusHistoryEntry, len(rec.StatusHistory))
	copy(history, rec.StatusHistory)
	return &Template{
		id:            rec.ID,
		name:          rec.Name,
		description:   rec.Description,
		version:       rec.Version,
		isActive:      rec.IsActive,
		createdAt:     rec.CreatedAt,
		updatedAt:     rec.UpdatedAt,
		versions:      versions,
		statusHistory: history,
	}
}
