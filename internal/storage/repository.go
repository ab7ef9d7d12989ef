// Package storage keeps a local SQLite mirror of the remote transaction
// and category collections. The mirror serves offline reads (export, the
// sheets sync queue) and is refreshed wholesale after each successful
// fetch.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kharcha/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceTransactions swaps the mirrored transaction set for the given
// one. Sync state survives the swap: rows that were already exported keep
// their synced flag when the same id comes back from the server.
func (r *SQLiteRepository) ReplaceTransactions(ctx context.Context, txs []core.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	synced := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, `SELECT id FROM transactions WHERE synced = 1`)
	if err != nil {
		return fmt.Errorf("read synced ids: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan synced id: %w", err)
		}
		synced[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate synced ids: %w", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, original_id, kind, date, description, category, amount_cents, icon, synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		flag := 0
		if synced[t.ID] {
			flag = 1
		}
		_, err := stmt.ExecContext(ctx,
			t.ID, t.OriginalID, string(t.Kind), t.Date.Format(dateLayout),
			t.Description, t.Category, t.Amount.Cents, t.Icon, flag)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}
	return nil
}

// ReplaceCategories swaps the mirrored category list.
func (r *SQLiteRepository) ReplaceCategories(ctx context.Context, cats []core.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, c := range cats {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, color, icon, is_mine) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Color, c.Icon, c.IsMine)
		if err != nil {
			return fmt.Errorf("insert category %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit categories: %w", err)
	}
	return nil
}

// ListTransactions reads the mirrored transactions, newest first. An empty
// month returns everything; otherwise month is YYYY-MM and filters by date
// prefix.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, month string) ([]core.Transaction, error) {
	query := `SELECT id, original_id, kind, date, description, category, amount_cents, icon
		FROM transactions`
	args := []any{}
	if month != "" {
		query += ` WHERE date LIKE ?`
		args = append(args, month+"-%")
	}
	query += ` ORDER BY date DESC, kind ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// PendingSync returns mirrored transactions not yet exported, oldest
// first, capped at limit.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, original_id, kind, date, description, category, amount_cents, icon
		FROM transactions WHERE synced = 0 ORDER BY date ASC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// MarkSynced flags the given transactions as exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`UPDATE transactions SET synced = 1 WHERE id IN (%s)`, placeholders)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// CountPending reports how many mirrored transactions still await export.
func (r *SQLiteRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE synced = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}

// ListCategories reads the mirrored category list ordered by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, icon, is_mine FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.IsMine); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			t    core.Transaction
			kind string
			date string
		)
		if err := rows.Scan(&t.ID, &t.OriginalID, &kind, &date, &t.Description, &t.Category, &t.Amount.Cents, &t.Icon); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.Kind(kind)
		parsed, err := core.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		t.Date = parsed
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
