package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"erpdesk/internal/document"
)

const documentColumns = `
	id, title, type, status, document_number,
	to_char(issue_date, 'YYYY-MM-DD'), issuing_entity, accompanying_documents,
	to_char(receipt_date, 'YYYY-MM-DD'), responsible_person, content, assignee
`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (document.Document, error) {
	var item document.Document
	var assignee sql.NullString
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Type,
		&item.Status,
		&item.DocumentNumber,
		&item.IssueDate,
		&item.IssuingEntity,
		&item.AccompanyingDocuments,
		&item.ReceiptDate,
		&item.ResponsiblePerson,
		&item.Content,
		&assignee,
	)
	if err != nil {
		return document.Document{}, err
	}
	item.Assignee = assignee.String
	return item, nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]document.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]document.Document, 0)
	for rows.Next() {
		item, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return items, nil
}

// GetDocument returns sql.ErrNoRows when the id is unknown.
func (s *PostgresStore) GetDocument(ctx context.Context, documentID string) (document.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1`, documentID)
	return scanDocument(row)
}

func (s *PostgresStore) InsertDocument(ctx context.Context, item document.Document) error {
	status := item.Status
	if status == "" {
		status = document.StatusPending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (
			id, title, type, status, document_number, issue_date, issuing_entity,
			accompanying_documents, receipt_date, responsible_person, content, assignee
		)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9::date, $10, $11, NULLIF($12, ''))
	`,
		item.ID,
		item.Title,
		string(item.Type),
		string(status),
		item.DocumentNumber,
		item.IssueDate,
		item.IssuingEntity,
		item.AccompanyingDocuments,
		item.ReceiptDate,
		item.ResponsiblePerson,
		item.Content,
		item.Assignee,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// UpdateDocumentStatus returns sql.ErrNoRows when the id is unknown.
func (s *PostgresStore) UpdateDocumentStatus(ctx context.Context, documentID string, status document.Status) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET status=$2, updated_at=NOW() WHERE id=$1
	`, documentID, string(status))
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return requireAffected(result)
}

// UpdateDocumentAssignee returns sql.ErrNoRows when the id is unknown.
func (s *PostgresStore) UpdateDocumentAssignee(ctx context.Context, documentID, assignee string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET assignee=NULLIF($2, ''), updated_at=NOW() WHERE id=$1
	`, documentID, assignee)
	if err != nil {
		return fmt.Errorf("update document assignee: %w", err)
	}
	return requireAffected(result)
}

// SearchDocuments is the substring fallback used when no search index is
// available.
func (s *PostgresStore) SearchDocuments(ctx context.Context, query string, limit int) ([]document.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE title ILIKE $1 OR document_number ILIKE $1 OR issuing_entity ILIKE $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	items := make([]document.Document, 0)
	for rows.Next() {
		item, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ListInboxItems(ctx context.Context) ([]document.InboxItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, sender, to_char(received_date, 'YYYY-MM-DD')
		FROM inbox_items
		ORDER BY received_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list inbox items: %w", err)
	}
	defer rows.Close()

	items := make([]document.InboxItem, 0)
	for rows.Next() {
		var item document.InboxItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Sender, &item.ReceivedDate); err != nil {
			return nil, fmt.Errorf("scan inbox item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inbox items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertInboxItem(ctx context.Context, item document.InboxItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inbox_items (id, title, sender, received_date)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, '')::date, CURRENT_DATE))
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.Title, item.Sender, item.ReceivedDate)
	if err != nil {
		return fmt.Errorf("insert inbox item: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
