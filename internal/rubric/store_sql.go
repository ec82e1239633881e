package rubric

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const table = "rubric_entries"

// SQLStore keeps the rubric table in sqlite or postgres. It is read once at
// startup; evaluation never touches the database.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Load returns the stored rubric ordered by position.
func (s *SQLStore) Load(ctx context.Context) (Rubric, error) {
	query, args, err := psql.Select("id", "keywords_json", "max_marks").
		From(table).
		OrderBy("position").
		ToSql()
	if err != nil {
		return Rubric{}, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Rubric{}, fmt.Errorf("rubric: query: %w", err)
	}
	defer rows.Close()

	var r Rubric
	for rows.Next() {
		var (
			e     Entry
			kjson string
		)
		if err := rows.Scan(&e.ID, &kjson, &e.MaxMarks); err != nil {
			return Rubric{}, err
		}
		if err := json.Unmarshal([]byte(kjson), &e.Keywords); err != nil {
			return Rubric{}, fmt.Errorf("rubric: %s keywords: %w", e.ID, err)
		}
		r.Questions = append(r.Questions, e)
	}
	if err := rows.Err(); err != nil {
		return Rubric{}, err
	}
	if err := r.Validate(); err != nil {
		return Rubric{}, err
	}
	return r, nil
}

// Seed writes r into an empty table. A table that already has rows is left
// untouched and Seed reports false.
func (s *SQLStore) Seed(ctx context.Context, r Rubric) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	ins := psql.Insert(table).Columns("id", "position", "keywords_json", "max_marks")
	for i, e := range r.Questions {
		kj, err := json.Marshal(e.Keywords)
		if err != nil {
			return false, err
		}
		ins = ins.Values(e.ID, i, string(kj), e.MaxMarks)
	}
	query, args, err := ins.ToSql()
	if err != nil {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("rubric: seed: %w", err)
	}
	return true, nil
}
