package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the category a document is filed under.
type Type string

const (
	TypePlan        Type = "plano"
	TypeReport      Type = "memoria"
	TypeBudget      Type = "presupuesto"
	TypeContract    Type = "contrato"
	TypePermit      Type = "licencia"
	TypeCertificate Type = "certificado"
	TypePhoto       Type = "fotografia"
	TypeOther       Type = "otro"
)

var types = []Type{
	TypePlan, TypeReport, TypeBudget, TypeContract,
	TypePermit, TypeCertificate, TypePhoto, TypeOther,
}

// Types returns every known document type in display order.
func Types() []Type {
	out := make([]Type, len(types))
	copy(out, types)

	return out
}

// ParseType validates a raw type value coming from outside the package.
func ParseType(s string) (Type, error) {
	for _, t := range types {
		if string(t) == s {
			return t, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// VersionStatus is the review state of a single uploaded version.
type VersionStatus string

const (
	VersionDraft    VersionStatus = "draft"
	VersionReview   VersionStatus = "review"
	VersionApproved VersionStatus = "approved"
	VersionShared   VersionStatus = "shared"
	VersionArchived VersionStatus = "archived"
)

var versionStatuses = []VersionStatus{
	VersionDraft, VersionReview, VersionApproved, VersionShared, VersionArchived,
}

func ParseVersionStatus(s string) (VersionStatus, error) {
	for _, st := range versionStatuses {
		if string(st) == s {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Metadata holds free-form descriptive fields.
type Metadata struct {
	Description string
	Discipline  string
}

// Version is one uploaded revision of a document. Versions belong to exactly
// one document and are never shared.
type Version struct {
	Number     int
	Label      string
	UploadedAt time.Time
	FileSize   int64 // bytes
	StorageKey string
	Status     VersionStatus
}

// Document is a project file with its full version history.
type Document struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	Type      Type
	Folder    string
	Metadata  Metadata
	Versions  []Version
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Latest returns the current version of the document.
func (d *Document) Latest() (Version, bool) {
	return LatestVersion(d.Versions)
}

// Version looks up a version by its ordinal.
func (d *Document) Version(number int) (Version, bool) {
	for _, v := range d.Versions {
		if v.Number == number {
			return v, true
		}
	}

	return Version{}, false
}

// NextVersionNumber is the ordinal the next appended version receives.
func (d *Document) NextVersionNumber() int {
	n := 0
	for _, v := range d.Versions {
		n = max(n, v.Number)
	}

	return n + 1
}
