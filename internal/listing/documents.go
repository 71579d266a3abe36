package listing

import (
	"cmp"
	"time"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

// DocumentQuery is the set of user-selected filters and the sort order for
// a document listing. Zero values disable the corresponding filter.
type DocumentQuery struct {
	Search string
	Type   document.Type
	Status document.VersionStatus // status of the latest version
	Folder string
	From   *time.Time // latest upload, inclusive
	To     *time.Time
	Sort   SortKey
	Desc   bool
}

// Documents filters and sorts a document snapshot.
func Documents(docs []*document.Document, q DocumentQuery) ([]*document.Document, error) {
	key := q.Sort
	if key == "" {
		key = SortDate
	}

	var compare func(a, b *document.Document) int

	switch key {
	case SortName:
		compare = func(a, b *document.Document) int { return compareFold(a.Name, b.Name) }
	case SortDate:
		compare = func(a, b *document.Document) int { return lastUpload(a).Compare(lastUpload(b)) }
	case SortType:
		compare = func(a, b *document.Document) int { return cmp.Compare(a.Type, b.Type) }
	case SortSize:
		compare = func(a, b *document.Document) int { return cmp.Compare(latestSize(a), latestSize(b)) }
	case SortPriority:
		return nil, ErrUnsupportedSortKey
	default:
		return nil, ErrInvalidSortKey
	}

	filtered := Filter(docs,
		Contains(q.Search, documentSearchFields),
		Equals(q.Type, func(d *document.Document) document.Type { return d.Type }),
		Equals(q.Status, latestStatus),
		Equals(q.Folder, func(d *document.Document) string { return d.Folder }),
		Between(q.From, q.To, lastUpload),
	)

	return Sort(filtered, compare, func(d *document.Document) string { return d.ID.String() }, q.Desc), nil
}

func documentSearchFields(d *document.Document) []string {
	return []string{d.Name, d.Metadata.Description, d.Metadata.Discipline, d.Folder, string(d.Type)}
}

func lastUpload(d *document.Document) time.Time {
	v, _ := d.Latest()
	return v.UploadedAt
}

func latestSize(d *document.Document) int64 {
	v, _ := d.Latest()
	return v.FileSize
}

func latestStatus(d *document.Document) document.VersionStatus {
	v, _ := d.Latest()
	return v.Status
}
