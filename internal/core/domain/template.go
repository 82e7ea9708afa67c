package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reasons recorded automatically by the aggregate. User-supplied reasons are
// stored verbatim; automatic entries carry System=true so the two are
// distinguishable in the history.
const (
	ReasonTemplateCreated = "template created"
	ReasonVersionCreated  = "version created"

	reasonVersionActivated       = "version activated"
	reasonVersionDeactivated     = "version deactivated"
	reasonAllVersionsActivated   = "all versions activated"
	reasonAllVersionsDeactivated = "all versions deactivated"

	ReasonAutoActivated   = "template activated automatically (active version detected)"
	ReasonAutoDeactivated = "template deactivated automatically (all versions inactive)"
)

// StatusHistoryEntry is an immutable record of a single activation change.
type StatusHistoryEntry struct {
	IsActive  bool      `json:"is_active"`
	Reason    string    `json:"reason"`
	System    bool      `json:"system"`
	ChangedAt time.Time `json:"changed_at"`
}

// TemplateVersion is one uploaded artifact generation. It is owned by exactly
// one Template; all mutations go through the parent aggregate.
type TemplateVersion struct {
	id                 uuid.UUID
	versionNumber      int
	fileName           string
	fileSize           int64
	storagePath        string
	uploadURL          string
	uploadURLExpiresAt time.Time
	isActive           bool
	createdAt          time.Time
	updatedAt          time.Time
	statusHistory      []StatusHistoryEntry
}

func (v *TemplateVersion) ID() uuid.UUID                 { return v.id }
func (v *TemplateVersion) VersionNumber() int            { return v.versionNumber }
func (v *TemplateVersion) FileName() string              { return v.fileName }
func (v *TemplateVersion) FileSize() int64               { return v.fileSize }
func (v *TemplateVersion) StoragePath() string           { return v.storagePath }
func (v *TemplateVersion) UploadURL() string             { return v.uploadURL }
func (v *TemplateVersion) UploadURLExpiresAt() time.Time { return v.uploadURLExpiresAt }
func (v *TemplateVersion) IsActive() bool                { return v.isActive }
func (v *TemplateVersion) CreatedAt() time.Time          { return v.createdAt }
func (v *TemplateVersion) UpdatedAt() time.Time          { return v.updatedAt }

// StatusHistory returns a copy of the version's append-only history.
func (v *TemplateVersion) StatusHistory() []StatusHistoryEntry {
	out := make([]StatusHistoryEntry, len(v.statusHistory))
	copy(out, v.statusHistory)
	return out
}

// RecordUpload stores the artifact size reported after the client completed
// the presigned upload.
func (v *TemplateVersion) RecordUpload(fileSize int64) {
	v.fileSize = fileSize
	v.updatedAt = time.Now().UTC()
}

func (v *TemplateVersion) setStatus(isActive bool, reason string, system bool) {
	v.isActive = isActive
	v.statusHistory = append(v.statusHistory, StatusHistoryEntry{
		IsActive:  isActive,
		Reason:    reason,
		System:    system,
		ChangedAt: time.Now().UTC(),
	})
	v.updatedAt = time.Now().UTC()
}

// Template is the aggregate root. The version counter only ever grows: it
// equals the highest version number ever assigned, even after removals.
type Template struct {
	id            uuid.UUID
	name          string
	description   string
	version       int
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
	versions      []*TemplateVersion
	statusHistory []StatusHistoryEntry
}

// NewTemplate creates an empty template. The caller is expected to add the
// first version in the same logical operation; an empty template is never
// persisted on its own.
func NewTemplate(name, description string) *Template {
	now := time.Now().UTC()
	return &Template{
		id:          uuid.New(),
		name:        name,
		description: description,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
		statusHistory: []StatusHistoryEntry{
			{IsActive: true, Reason: ReasonTemplateCreated, System: true, ChangedAt: now},
		},
	}
}

func (t *Template) ID() uuid.UUID        { return t.id }
func (t *Template) Name() string         { return t.name }
func (t *Template) Description() string  { return t.description }
func (t *Template) Version() int         { return t.version }
func (t *Template) IsActive() bool       { return t.isActive }
func (t *Template) CreatedAt() time.Time { return t.createdAt }
func (t *Template) UpdatedAt() time.Time { return t.updatedAt }

// Versions returns the versions in creation order. The slice is a copy; the
// elements are the live entities.
func (t *Template) Versions() []*TemplateVersion {
	out := make([]*TemplateVersion, len(t.versions))
	copy(out, t.versions)
	return out
}

// StatusHistory returns a copy of the template-level append-only history.
func (t *Template) StatusHistory() []StatusHistoryEntry {
	out := make([]StatusHistoryEntry, len(t.statusHistory))
	copy(out, t.statusHistory)
	return out
}

// RestoreVersionCounter raises the version counter to at least n. Used when
// bootstrapping a template whose prior versions are known only from object
// store listings, so numbering continues instead of restarting at 1.
func (t *Template) RestoreVersionCounter(n int) {
	if n > t.version {
		t.version = n
	}
}

// AddVersion allocates the next version number and appends a new active
// version. Input validation is the caller's responsibility.
func (t *Template) AddVersion(fileName, storagePath, uploadURL string, uploadURLExpiresAt time.Time) *TemplateVersion {
	t.version++
	now := time.Now().UTC()
	v := &TemplateVersion{
		id:                 uuid.New(),
		versionNumber:      t.version,
		fileName:           fileName,
		storagePath:        storagePath,
		uploadURL:          uploadURL,
		uploadURLExpiresAt: uploadURLExpiresAt,
		isActive:           true,
		createdAt:          now,
		updatedAt:          now,
		statusHistory: []StatusHistoryEntry{
			{IsActive: true, Reason: ReasonVersionCreated, System: true, ChangedAt: now},
		},
	}
	t.versions = append(t.versions, v)
	t.updatedAt = now
	return v
}

func (t *Template) GetVersionByID(id uuid.UUID) *TemplateVersion {
	for _, v := range t.versions {
		if v.id == id {
			return v
		}
	}
	return nil
}

func (t *Template) GetVersionByNumber(n int) *TemplateVersion {
	for _, v := range t.versions {
		if v.versionNumber == n {
			return v
		}
	}
	return nil
}

func (t *Template) LatestVersion() *TemplateVersion {
	var latest *TemplateVersion
	for _, v := range t.versions {
		if latest == nil || v.versionNumber > latest.versionNumber {
			latest = v
		}
	}
	return latest
}

// RemoveVersion drops the version with the given id. It does not guard
// against removing the last version; that precondition is checked by the
// deletion orchestrator. The version counter is never decremented.
func (t *Template) RemoveVersion(id uuid.UUID) bool {
	for i, v := range t.versions {
		if v.id == id {
			t.versions = append(t.versions[:i], t.versions[i+1:]...)
			t.updatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// ActivateVersion activates a single version and reconciles the template
// status. Returns false when the version is unknown.
func (t *Template) ActivateVersion(id uuid.UUID, reason string) bool {
	return t.toggleVersion(id, true, reason, reasonVersionActivated)
}

// DeactivateVersion deactivates a single version and reconciles the template
// status. Returns false when the version is unknown.
func (t *Template) DeactivateVersion(id uuid.UUID, reason string) bool {
	return t.toggleVersion(id, false, reason, reasonVersionDeactivated)
}

func (t *Template) toggleVersion(id uuid.UUID, isActive bool, reason, fallback string) bool {
	v := t.GetVersionByID(id)
	if v == nil {
		return false
	}
	system := false
	if reason == "" {
		reason = fallback
		system = true
	}
	v.setStatus(isActive, reason, system)
	t.reconcileStatus()
	t.updatedAt = time.Now().UTC()
	return true
}

// ActivateAllVersions forces every version and the template itself active.
// The template status is set directly rather than derived, so exactly one
// template-level entry is recorded regardless of prior state.
func (t *Template) ActivateAllVersions(reason string) {
	t.setAllVersions(true, reason, reasonAllVersionsActivated)
}

// DeactivateAllVersions forces every version and the template itself inactive.
func (t *Template) DeactivateAllVersions(reason string) {
	t.setAllVersions(false, reason, reasonAllVersionsDeactivated)
}

func (t *Template) setAllVersions(isActive bool, reason, fallback string) {
	system := false
	if reason == "" {
		reason = fallback
		system = true
	}
	for _, v := range t.versions {
		v.setStatus(isActive, reason, system)
	}
	now := time.Now().UTC()
	t.isActive = isActive
	t.statusHistory = append(t.statusHistory, StatusHistoryEntry{
		IsActive:  isActive,
		Reason:    reason,
		System:    system,
		ChangedAt: now,
	})
	t.updatedAt = now
}

func (t *Template) UpdateDescription(description string) {
	t.description = description
	t.updatedAt = time.Now().UTC()
}

// reconcileStatus derives the template status as the OR over version statuses
// and records a system history entry only when the derived value actually
// changed.
func (t *Template) reconcileStatus() {
	shouldBeActive := false
	for _, v := range t.versions {
		if v.isActive {
			shouldBeActive = true
			break
		}
	}
	if t.isActive == shouldBeActive {
		return
	}
	t.isActive = shouldBeActive
	reason := ReasonAutoDeactivated
	if shouldBeActive {
		reason = ReasonAutoActivated
	}
	t.statusHistory = append(t.statusHistory, StatusHistoryEntry{
		IsActive:  shouldBeActive,
		Reason:    reason,
		System:    true,
		ChangedAt: time.Now().UTC(),
	})
}
