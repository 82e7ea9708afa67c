package domain

import (
	"time"

	"github.com/google/uuid"
)

// UploadGrant is the result of a successful upload-slot request: a
// time-limited, path-scoped permission to PUT the artifact directly into the
// object store.
type UploadGrant struct {
	TemplateID    uuid.UUID
	TemplateName  string
	VersionID     uuid.UUID
	VersionNumber int
	UploadURL     string
	ExpiresAt     time.Time
	StoragePath   string
	CreatedAt     time.Time
}
