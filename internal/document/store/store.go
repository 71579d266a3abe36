package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectDocumentColumns = `
	d.id, d.project_id, d.name, d.type, d.folder, d.description, d.discipline, d.created_at, d.updated_at
`

// scanDocument reads a document row without its versions.
// Expected column order: id, project_id, name, type, folder, description, discipline, created_at, updated_at
func scanDocument(s scanner) (*document.Document, error) {
	var (
		doc     document.Document
		typeStr string
	)

	if err := s.Scan(
		&doc.ID, &doc.ProjectID, &doc.Name, &typeStr, &doc.Folder,
		&doc.Metadata.Description, &doc.Metadata.Discipline,
		&doc.CreatedAt, &doc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	doc.Type = document.Type(typeStr)

	return &doc, nil
}

const selectVersionColumns = `
	v.document_id, v.number, v.label, v.uploaded_at, v.file_size, v.storage_key, v.status
`

func scanVersion(s scanner) (uuid.UUID, document.Version, error) {
	var (
		docID     uuid.UUID
		v         document.Version
		statusStr string
	)

	if err := s.Scan(&docID, &v.Number, &v.Label, &v.UploadedAt, &v.FileSize, &v.StorageKey, &statusStr); err != nil {
		return uuid.Nil, document.Version{}, err
	}

	v.Status = document.VersionStatus(statusStr)

	return docID, v, nil
}

// CreateDocument stores the document and its initial versions atomically.
func (s *Store) CreateDocument(ctx context.Context, doc *document.Document) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO documents (id, project_id, name, type, folder, description, discipline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		doc.ID,
		doc.ProjectID,
		doc.Name,
		doc.Type,
		doc.Folder,
		doc.Metadata.Description,
		doc.Metadata.Discipline,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	for i := range doc.Versions {
		if err := insertVersion(ctx, dbTx, doc.ID, &doc.Versions[i]); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertVersion(ctx context.Context, dbTx *sql.Tx, documentID uuid.UUID, v *document.Version) error {
	query := `
		INSERT INTO document_versions (document_id, number, label, uploaded_at, file_size, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := dbTx.ExecContext(ctx, query,
		documentID,
		v.Number,
		v.Label,
		v.UploadedAt,
		v.FileSize,
		v.StorageKey,
		v.Status,
	)
	if err != nil {
		return fmt.Errorf("creating version %d: %w", v.Number, err)
	}

	return nil
}

func (s *Store) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + ` FROM documents d WHERE d.id = $1`

	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}

		return nil, fmt.Errorf("getting document: %w", err)
	}

	versionsQuery := `SELECT ` + selectVersionColumns + `
		FROM document_versions v
		WHERE v.document_id = $1
		ORDER BY v.number ASC`

	rows, err := s.db.QueryContext(ctx, versionsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		_, v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}

		doc.Versions = append(doc.Versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating versions: %w", err)
	}

	return doc, nil
}

func (s *Store) ListDocuments(ctx context.Context, projectID uuid.UUID) ([]*document.Document, error) {
	query := `SELECT ` + selectDocumentColumns + `
		FROM documents d
		WHERE d.project_id = $1
		ORDER BY d.created_at ASC, d.id ASC`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []*document.Document

	byID := make(map[uuid.UUID]*document.Document)

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		docs = append(docs, doc)
		byID[doc.ID] = doc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	if len(docs) == 0 {
		return docs, nil
	}

	versionsQuery := `SELECT ` + selectVersionColumns + `
		FROM document_versions v
		JOIN documents d ON d.id = v.document_id
		WHERE d.project_id = $1
		ORDER BY v.document_id, v.number ASC`

	vrows, err := s.db.QueryContext(ctx, versionsQuery, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer vrows.Close()

	for vrows.Next() {
		docID, v, err := scanVersion(vrows)
		if err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}

		// Versions of a document created after the first query are skipped.
		if doc, ok := byID[docID]; ok {
			doc.Versions = append(doc.Versions, v)
		}
	}

	if err := vrows.Err(); err != nil {
		return nil, fmt.Errorf("iterating versions: %w", err)
	}

	return docs, nil
}

func (s *Store) UpdateDocument(ctx context.Context, doc *document.Document) error {
	query := `
		UPDATE documents
		SET name = $1, type = $2, folder = $3, description = $4, discipline = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		doc.Name,
		doc.Type,
		doc.Folder,
		doc.Metadata.Description,
		doc.Metadata.Discipline,
		doc.ID,
	).Scan(&doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return document.ErrNotFound
		}

		return fmt.Errorf("updating document: %w", err)
	}

	return nil
}

// AppendVersion locks the parent row so concurrent uploads receive distinct,
// consecutive numbers. The number actually assigned is written back into v.
func (s *Store) AppendVersion(ctx context.Context, documentID uuid.UUID, v *document.Version) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	var locked uuid.UUID
	if err := dbTx.QueryRowContext(ctx, `SELECT id FROM documents WHERE id = $1 FOR UPDATE`, documentID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return document.ErrNotFound
		}

		return fmt.Errorf("locking document: %w", err)
	}

	var next int
	if err := dbTx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM document_versions WHERE document_id = $1`, documentID,
	).Scan(&next); err != nil {
		return fmt.Errorf("computing version number: %w", err)
	}

	v.Number = next

	if err := insertVersion(ctx, dbTx, documentID, v); err != nil {
		return err
	}

	if _, err := dbTx.ExecContext(ctx, `UPDATE documents SET updated_at = NOW() WHERE id = $1`, documentID); err != nil {
		return fmt.Errorf("touching document: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) UpdateVersionStatus(ctx context.Context, documentID uuid.UUID, number int, status document.VersionStatus) error {
	query := `
		UPDATE document_versions
		SET status = $1
		WHERE document_id = $2 AND number = $3
	`

	res, err := s.db.ExecContext(ctx, query, status, documentID, number)
	if err != nil {
		return fmt.Errorf("updating version status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return document.ErrVersionNotFound
	}

	return nil
}

// DeleteDocument relies on ON DELETE CASCADE to drop the versions.
func (s *Store) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	return nil
}

func (s *Store) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("deleting project documents: %w", err)
	}

	return nil
}
