package domain

import "errors"

// Not found errors
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrVersionNotFound  = errors.New("template version not found")
)

// Validation errors
var (
	ErrTemplateNameRequired = errors.New("template name is required")
	ErrMissingExtension     = errors.New("file name must include an extension")
	ErrUnsupportedExtension = errors.New("file extension is not an accepted archive type")
	ErrLastVersion          = errors.New("cannot remove the last remaining version of a template")
	ErrInvalidFileSize      = errors.New("file size must not be negative")
)

// Integration errors
var (
	ErrObjectStoreUnavailable = errors.New("object store operation failed")
)
