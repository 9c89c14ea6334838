package faqrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ymori/visafaq/internal/domain/faq"
)

// PostgresRepository implements faq.EntryRepository using pgx. The snapshot
// semantics of Save map to a transactional delete-and-insert: entry identity
// is positional, so partial updates have no stable key to target.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Load(ctx context.Context) ([]faq.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT question, answer, keywords, category
		FROM faq_entries
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []faq.Entry
	for rows.Next() {
		var e faq.Entry
		if err := rows.Scan(&e.Question, &e.Answer, &e.Keywords, &e.Category); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepository) Save(ctx context.Context, entries []faq.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faq_entries`); err != nil {
		return err
	}
	if len(entries) > 0 {
		batch := &pgx.Batch{}
		for i, e := range entries {
			batch.Queue(`
				INSERT INTO faq_entries (position, question, answer, keywords, category)
				VALUES ($1, $2, $3, $4, $5)
			`, i, e.Question, e.Answer, e.Keywords, e.Category)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// PostgresPendingRepository implements faq.PendingRepository using pgx.
type PostgresPendingRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPendingRepository constructs the pending repository.
func NewPostgresPendingRepository(pool *pgxpool.Pool) *PostgresPendingRepository {
	return &PostgresPendingRepository{pool: pool}
}

func (r *PostgresPendingRepository) Load(ctx context.Context) ([]faq.PendingEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question, answer, keywords, category,
		       created_at, origin_question, needs_confirmation, reviewer_comment
		FROM faq_pending
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []faq.PendingEntry
	for rows.Next() {
		var p faq.PendingEntry
		if err := rows.Scan(
			&p.ID, &p.Question, &p.Answer, &p.Keywords, &p.Category,
			&p.CreatedAt, &p.OriginQuestion, &p.NeedsConfirmation, &p.ReviewerComment,
		); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

func (r *PostgresPendingRepository) Save(ctx context.Context, pending []faq.PendingEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM faq_pending`); err != nil {
		return err
	}
	if len(pending) > 0 {
		batch := &pgx.Batch{}
		for _, p := range pending {
			batch.Queue(`
				INSERT INTO faq_pending
					(id, question, answer, keywords, category,
					 created_at, origin_question, needs_confirmation, reviewer_comment)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, p.ID, p.Question, p.Answer, p.Keywords, p.Category,
				p.CreatedAt, p.OriginQuestion, p.NeedsConfirmation, p.ReviewerComment)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

var (
	_ faq.EntryRepository   = (*PostgresRepository)(nil)
	_ faq.PendingRepository = (*PostgresPendingRepository)(nil)
)
