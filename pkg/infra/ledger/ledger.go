package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

const DefaultLimit = 20

// Entry is one recorded CLI run. Tag values are never stored.
type Entry struct {
	ID             int64
	FileName       string
	Mode           string
	Policy         string
	OverallRisk    metadata.RiskLevel
	TotalCount     int
	RemovedCount   int
	RemainingCount int
	HashBefore     string
	HashAfter      string
	RecordedAt     time.Time
}

func NewEntry(mode, policyName string, res *metadata.Result, at time.Time) *Entry {
	return &Entry{
		FileName:       res.FileName,
		Mode:           mode,
		Policy:         policyName,
		OverallRisk:    res.Verdict.OverallRisk,
		TotalCount:     res.TotalCount,
		RemovedCount:   res.RemovedCount,
		RemainingCount: res.RemainingCount,
		HashBefore:     res.Integrity.HashBefore,
		HashAfter:      res.Integrity.HashAfter,
		RecordedAt:     at,
	}
}

// DefaultPath is ~/.metaguard/history.db, or a relative path when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".metaguard", "history.db")
	}
	return filepath.Join(home, ".metaguard", "history.db")
}

type Ledger struct {
	db *sql.DB
}

func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) Record(ctx context.Context, e *Entry) error {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (file_name, mode, policy, overall_risk, total_count, removed_count,
			remaining_count, sha256_before, sha256_after, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.FileName, e.Mode, e.Policy, string(e.OverallRisk), e.TotalCount, e.RemovedCount,
		e.RemainingCount, e.HashBefore, e.HashAfter, e.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// Recent returns the newest runs first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, file_name, mode, policy, overall_risk, total_count, removed_count,
			remaining_count, sha256_before, sha256_after, recorded_at
		FROM runs ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			risk string
			ms   int64
		)
		if err := rows.Scan(&e.ID, &e.FileName, &e.Mode, &e.Policy, &risk, &e.TotalCount,
			&e.RemovedCount, &e.RemainingCount, &e.HashBefore, &e.HashAfter, &ms); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.OverallRisk = metadata.RiskLevel(risk)
		e.RecordedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
