package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

const summariesSchema = `
CREATE TABLE IF NOT EXISTS summaries (
	paper_id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	relevance REAL NOT NULL,
	novelty REAL NOT NULL,
	tldr TEXT NOT NULL,
	why TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// SummaryDB persists per-paper summaries in a single-file sqlite
// database so model-backed scoring stays idempotent and cost-bounded.
type SummaryDB struct {
	db *sql.DB
}

var _ ports.SummaryCache = (*SummaryDB)(nil)

// OpenSummaryDB opens (and if needed creates) the database at path.
func OpenSummaryDB(path string) (*SummaryDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open summary db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(summariesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create summaries table: %w", err)
	}

	return &SummaryDB{db: db}, nil
}

// Close releases the underlying connection.
func (s *SummaryDB) Close() error {
	return s.db.Close()
}

// Get performs a point lookup by identifier. The second return is
// false on a miss.
func (s *SummaryDB) Get(ctx context.Context, paperID string) (domain.CachedSummary, bool, error) {
	row := sq.Select("paper_id", "model", "relevance", "novelty", "tldr", "why", "created_at").
		From("summaries").
		Where(sq.Eq{"paper_id": paperID}).
		RunWith(s.db).
		QueryRowContext(ctx)

	var summary domain.CachedSummary
	err := row.Scan(&summary.PaperID, &summary.Model, &summary.Relevance,
		&summary.Novelty, &summary.TLDR, &summary.Why, &summary.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CachedSummary{}, false, nil
	}
	if err != nil {
		return domain.CachedSummary{}, false, fmt.Errorf("query summary %s: %w", paperID, err)
	}
	return summary, true, nil
}

// Put upserts the summary keyed by identifier in one statement, so a
// cross-listed paper scored twice cannot lose an update.
func (s *SummaryDB) Put(ctx context.Context, summary domain.CachedSummary) error {
	_, err := sq.Insert("summaries").
		Options("OR REPLACE").
		Columns("paper_id", "model", "relevance", "novelty", "tldr", "why", "created_at").
		Values(summary.PaperID, summary.Model, summary.Relevance,
			summary.Novelty, summary.TLDR, summary.Why, summary.CreatedAt).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert summary %s: %w", summary.PaperID, err)
	}
	return nil
}
