package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBExecutor lets store functions accept either *sql.DB or *sql.Tx.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ErrNotFound is returned when a word is absent from the dictionary.
var ErrNotFound = errors.New("word not found")

// upsertSQL inserts a new word or adds the submitted count to an
// existing record. The UNIQUE constraint on word guarantees at most one
// row per word regardless of caller behavior.
const upsertSQL = `
INSERT INTO words (word, frequency) VALUES (?, ?)
ON CONFLICT(word) DO UPDATE SET frequency = frequency + excluded.frequency`

// MergeCounts merges one chunk's validated tokens into the frequency
// table inside a single transaction: either every occurrence in tokens is
// reflected, or none are. A word occurring k times in tokens gains
// exactly k.
func MergeCounts(ctx context.Context, conn *sql.DB, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, w := range tokens {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		return fmt.Errorf("prepare merge statement: %w", err)
	}
	defer stmt.Close()

	for _, w := range order {
		if _, err := stmt.ExecContext(ctx, w, counts[w]); err != nil {
			return fmt.Errorf("merge word %q: %w", w, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge of %d words: %w", len(order), err)
	}
	return nil
}

// AddWord inserts word with frequency 1 or increments an existing record.
func AddWord(ctx context.Context, db DBExecutor, word string) error {
	if _, err := db.ExecContext(ctx, upsertSQL, word, 1); err != nil {
		return fmt.Errorf("upsert word %q: %w", word, err)
	}
	return nil
}

// RemoveWord deletes the record for word entirely, not just decrementing
// it. Returns ErrNotFound when no record existed.
func RemoveWord(ctx context.Context, db DBExecutor, word string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM words WHERE word = ?`, word)
	if err != nil {
		return fmt.Errorf("delete word %q: %w", word, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFrequency returns the stored count for word, or ErrNotFound.
func GetFrequency(ctx context.Context, db DBExecutor, word string) (int, error) {
	var freq int
	err := db.QueryRowContext(ctx, `SELECT frequency FROM words WHERE word = ?`, word).Scan(&freq)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query frequency of %q: %w", word, err)
	}
	return freq, nil
}

// SortColumn selects the ordering of ListWords results.
type SortColumn int

const (
	ByWord SortColumn = iota
	ByFrequency
)

// ListOptions controls ListWords. A Limit <= 0 means no limit; Offset
// applies either way.
type ListOptions struct {
	Limit     int
	Offset    int
	SortBy    SortColumn
	Ascending bool
}

// ListWords returns dictionary entries ordered per opts. Frequency
// ordering breaks ties by word so results are deterministic.
func ListWords(ctx context.Context, db DBExecutor, opts ListOptions) ([]WordEntry, error) {
	dir := "DESC"
	if opts.Ascending {
		dir = "ASC"
	}
	query := `SELECT word, frequency FROM words ORDER BY word ` + dir
	if opts.SortBy == ByFrequency {
		query = `SELECT word, frequency FROM words ORDER BY frequency ` + dir + `, word ASC`
	}

	var args []interface{}
	if opts.Limit > 0 || opts.Offset > 0 {
		// SQLite treats LIMIT -1 as unlimited, which OFFSET requires.
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ?"
		args = append(args, limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var out []WordEntry
	for rows.Next() {
		var e WordEntry
		if err := rows.Scan(&e.Word, &e.Frequency); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SuggestWords returns completion candidates for prefix: an exact match
// first, then prefix matches ordered by frequency descending, up to limit
// words in total.
func SuggestWords(ctx context.Context, db DBExecutor, prefix string, limit int) ([]string, error) {
	if prefix == "" || limit <= 0 {
		return nil, nil
	}

	var out []string
	var exact string
	err := db.QueryRowContext(ctx, `SELECT word FROM words WHERE word = ?`, prefix).Scan(&exact)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("suggest %q: %w", prefix, err)
	}
	if err == nil {
		out = append(out, exact)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT word FROM words WHERE word LIKE ? AND word != ? ORDER BY frequency DESC, word ASC LIMIT ?`,
		prefix+"%", prefix, limit-len(out))
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", prefix, err)
	}
	defer rows.Close()

	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CountWords returns the number of distinct words stored.
func CountWords(ctx context.Context, db DBExecutor) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// GetInfo collects dictionary metadata and the word count. Meta rows come
// back in seeding order.
func GetInfo(ctx context.Context, db DBExecutor, path string) (Info, error) {
	info := Info{Path: path}

	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta ORDER BY rowid`)
	if err != nil {
		return info, fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m MetaEntry
		if err := rows.Scan(&m.Key, &m.Value); err != nil {
			return info, err
		}
		info.Meta = append(info.Meta, m)
	}
	if err := rows.Err(); err != nil {
		return info, err
	}

	info.Words, err = CountWords(ctx, db)
	return info, err
}

// ResetWords deletes every word record. Metadata is preserved.
func ResetWords(ctx context.Context, db DBExecutor) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM words`); err != nil {
		return fmt.Errorf("reset dictionary: %w", err)
	}
	return nil
}
