package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"template-registry-service/internal/core/domain"
	"template-registry-service/internal/core/ports/output"
)

// TemplateService orchestrates template uploads, status changes and removal.
// Each operation loads a fresh aggregate, mutates it in memory and writes it
// back; the aggregate is the single source of truth for validity.
type TemplateService struct {
	repo         ports.TemplateRepository
	store        ports.ObjectStore
	bucket       string
	uploadExpiry time.Duration
}

func NewTemplateService(repo ports.TemplateRepository, store ports.ObjectStore, bucket string, uploadExpiry time.Duration) *TemplateService {
	return &TemplateService{
		repo:         repo,
		store:        store,
		bucket:       bucket,
		uploadExpiry: uploadExpiry,
	}
}

// RequestUpload allocates the next version number for the named template,
// issues a presigned upload URL scoped to the canonical storage path and
// persists the new version. Nothing is persisted unless the credential was
// obtained, so a presign failure leaves no partial state.
func (s *TemplateService) RequestUpload(ctx context.Context, name, description, fileName string) (*domain.UploadGrant, error) {
	if name == "" {
		return nil, domain.ErrTemplateNameRequired
	}
	contentType, err := domain.ArchiveContentType(fileName)
	if err != nil {
		return nil, err
	}

	if err := s.store.EnsureBucket(ctx, s.bucket); err != nil {
		return nil, fmt.Errorf("%w: ensure bucket %q: %v", domain.ErrObjectStoreUnavailable, s.bucket, err)
	}

	t, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil:
		return s.addVersion(ctx, t, description, fileName, contentType, false)
	case errors.Is(err, domain.ErrTemplateNotFound):
		t = domain.NewTemplate(name, description)
		t.RestoreVersionCounter(s.discoverVersionCounter(ctx, name))
		return s.addVersion(ctx, t, "", fileName, contentType, true)
	default:
		return nil, fmt.Errorf("get template by name: %w", err)
	}
}

// discoverVersionCounter continues numbering from artifacts already in the
// store when no metadata record exists. Listing failures fall back to 0; the
// metadata record becomes authoritative once created.
func (s *TemplateService) discoverVersionCounter(ctx context.Context, name string) int {
	keys, err := s.store.ListKeys(ctx, s.bucket, name+"/")
	if err != nil {
		log.WithError(err).WithField("template", name).Warn("list object keys failed, starting version numbering at 1")
		return 0
	}
	return domain.MaxVersionFromKeys(name, keys)
}

func (s *TemplateService) addVersion(ctx context.Context, t *domain.Template, description, fileName, contentType string, created bool) (*domain.UploadGrant, error) {
	versionNumber := domain.NextVersionNumber(t.Version())
	storagePath := domain.BuildStoragePath(t.Name(), versionNumber, fileName)

	uploadURL, err := s.store.PresignUpload(ctx, s.bucket, storagePath, s.uploadExpiry, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: presign upload for %q: %v", domain.ErrObjectStoreUnavailable, storagePath, err)
	}
	expiresAt := time.Now().UTC().Add(s.uploadExpiry)

	v := t.AddVersion(fileName, storagePath, uploadURL, expiresAt)
	if description != "" {
		t.UpdateDescription(description)
	}

	if created {
		if err := s.repo.Create(ctx, t); err != nil {
			return nil, fmt.Errorf("create template: %w", err)
		}
	} else {
		if _, err := s.repo.Update(ctx, t); err != nil {
			return nil, fmt.Errorf("update template: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"template": t.Name(),
		"version":  v.VersionNumber(),
		"path":     storagePath,
	}).Info("upload slot granted")

	return &domain.UploadGrant{
		TemplateID:    t.ID(),
		TemplateName:  t.Name(),
		VersionID:     v.ID(),
		VersionNumber: v.VersionNumber(),
		UploadURL:     uploadURL,
		ExpiresAt:     expiresAt,
		StoragePath:   storagePath,
		CreatedAt:     t.CreatedAt(),
	}, nil
}

func (s *TemplateService) Get(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	return s.repo.GetByID(ctx, id)
}

// GetVersion returns the template together with one of its versions.
func (s *TemplateService) GetVersion(ctx context.Context, id, versionID uuid.UUID) (*domain.Template, *domain.TemplateVersion, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	v := t.GetVersionByID(versionID)
	if v == nil {
		return nil, nil, domain.ErrVersionNotFound
	}
	return t, v, nil
}

func (s *TemplateService) ListAll(ctx context.Context) ([]*domain.Template, error) {
	return s.repo.GetAll(ctx)
}

// ChangeStatus toggles a single version when versionID is set, letting the
// template status follow by OR-reduction. Without a versionID it forces the
// requested status onto every version and the template itself.
func (s *TemplateService) ChangeStatus(ctx context.Context, id uuid.UUID, isActive bool, reason string, versionID *uuid.UUID) (*domain.Template, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if versionID != nil {
		ok := false
		if isActive {
			ok = t.ActivateVersion(*versionID, reason)
		} else {
			ok = t.DeactivateVersion(*versionID, reason)
		}
		if !ok {
			return nil, domain.ErrVersionNotFound
		}
	} else {
		if isActive {
			t.ActivateAllVersions(reason)
		} else {
			t.DeactivateAllVersions(reason)
		}
	}

	if _, err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// ConfirmUpload records the artifact size after the client finished the
// presigned upload.
func (s *TemplateService) ConfirmUpload(ctx context.Context, id, versionID uuid.UUID, fileSize int64) (*domain.Template, error) {
	if fileSize < 0 {
		return nil, domain.ErrInvalidFileSize
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := t.GetVersionByID(versionID)
	if v == nil {
		return nil, domain.ErrVersionNotFound
	}
	v.RecordUpload(fileSize)
	if _, err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// RemoveTemplate deletes a template. Object cleanup is best effort; the
// metadata delete is the authoritative step and decides the outcome.
func (s *TemplateService) RemoveTemplate(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteKeysByPrefix(ctx, s.bucket, t.Name()+"/"); err != nil {
		log.WithError(err).WithField("template", t.Name()).Warn("object cleanup failed, continuing with metadata delete")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if !deleted {
		return domain.ErrTemplateNotFound
	}
	log.WithField("template", t.Name()).Info("template removed")
	return nil
}

// RemoveVersion deletes a single version. A template must always retain at
// least one version. The object delete is attempted first and is best effort;
// the metadata update is the authoritative step.
func (s *TemplateService) RemoveVersion(ctx context.Context, id, versionID uuid.UUID) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	v := t.GetVersionByID(versionID)
	if v == nil {
		return domain.ErrVersionNotFound
	}
	if len(t.Versions()) == 1 {
		return domain.ErrLastVersion
	}

	if err := s.store.DeleteKey(ctx, s.bucket, v.StoragePath()); err != nil {
		log.WithError(err).WithField("path", v.StoragePath()).Warn("object delete failed, continuing with metadata update")
	}

	t.RemoveVersion(versionID)
	if _, err := s.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	log.WithFields(log.Fields{
		"template": t.Name(),
		"version":  v.VersionNumber(),
	}).Info("template version removed")
	return nil
}
