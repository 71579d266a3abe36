package document

import "errors"

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionNotFound = errors.New("document version not found")
	ErrInvalidType     = errors.New("invalid document type")
	ErrInvalidStatus   = errors.New("invalid version status")
	ErrEmptyName       = errors.New("document name is required")
	ErrNoVersions      = errors.New("document has no versions")
)
