package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
)

// Source is the subset of the document service the export needs.
type Source interface {
	List(ctx context.Context, projectID uuid.UUID) ([]*document.Document, error)
	DownloadURL(ctx context.Context, id uuid.UUID, number int) (string, error)
}

// Item links an exported document to the file written for its latest
// version. FilePath is empty for documents without versions.
type Item struct {
	Document *document.Document
	Version  document.Version
	FilePath string
}

// Service bundles the latest version of every selected document of a
// project into a directory.
type Service struct {
	documents Source
	client    *http.Client
}

func NewService(documents Source) *Service {
	return &Service{
		documents: documents,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Export downloads the documents matching q into outputDir, keeping their
// folder structure.
func (s *Service) Export(ctx context.Context, projectID uuid.UUID, q listing.DocumentQuery, outputDir string) ([]Item, error) {
	all, err := s.documents.List(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	if q.Sort == "" {
		q.Sort = listing.SortName
	}

	docs, err := listing.Documents(all, q)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(docs))

	for _, d := range docs {
		item := Item{Document: d}

		if v, ok := d.Latest(); ok {
			item.Version = v

			url, err := s.documents.DownloadURL(ctx, d.ID, v.Number)
			if err != nil {
				return nil, fmt.Errorf("resolving download for document %s: %w", d.ID, err)
			}

			p, err := s.download(ctx, url, d, v, outputDir)
			if err != nil {
				return nil, fmt.Errorf("downloading document %s: %w", d.ID, err)
			}

			item.FilePath = p
		}

		items = append(items, item)
	}

	return items, nil
}

func (s *Service) download(ctx context.Context, url string, d *document.Document, v document.Version, root string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	dir := filepath.Join(root, filepath.FromSlash(path.Clean("/"+d.Folder)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating folder: %w", err)
	}

	f, p, err := createUnique(dir, fileName(resp, d, v), d.ID)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return p, nil
}

// createUnique never overwrites an exported file. On a name clash the
// short document id is appended, then a counter.
func createUnique(dir, name string, id uuid.UUID) (*os.File, string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	short := id.String()[:8]

	candidates := []string{name, fmt.Sprintf("%s_%s%s", base, short, ext)}

	for i := 0; ; i++ {
		var candidate string
		if i < len(candidates) {
			candidate = candidates[i]
		} else {
			candidate = fmt.Sprintf("%s_%s_%d%s", base, short, i-len(candidates)+2, ext)
		}

		p := filepath.Join(dir, candidate)

		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, p, nil
		}

		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
}

// fileName is <name>_v<number><ext>. The extension comes from the
// Content-Disposition filename, then the Content-Type, then .pdf.
func fileName(resp *http.Response, d *document.Document, v document.Version) string {
	ext := ""

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			ext = filepath.Ext(params["filename"])
		}
	}

	if ext == "" {
		if ct := resp.Header.Get("Content-Type"); ct != "" {
			if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
				ext = exts[0]
			}
		}
	}

	if ext == "" {
		ext = ".pdf"
	}

	base := strings.TrimSuffix(d.Name, filepath.Ext(d.Name))

	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r <= ' ' {
			return '_'
		}

		return r
	}, base)

	return fmt.Sprintf("%s_v%d%s", safe, v.Number, ext)
}

// GenerateSummary lists the exported items, one per line.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		d := item.Document

		name := d.Name
		if d.Folder != "" {
			name = d.Folder + "/" + d.Name
		}

		if item.FilePath == "" {
			fmt.Fprintf(&sb, "* %s | %s | sin versiones\n", name, d.Type)
			continue
		}

		v := item.Version
		fmt.Fprintf(&sb, "* %s | %s | v%d %s | %s | %s\n",
			name, d.Type, v.Number, v.Status, v.UploadedAt.Format("2006-01-02"), filepath.Base(item.FilePath))
	}

	return sb.String()
}
