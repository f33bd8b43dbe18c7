package object

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/supernova/supernova/internal/core/value"
	"github.com/supernova/supernova/internal/storage/sqlite"
)

// Repository performs typed CRUD against a class's physical table. Rows come
// back as value.Row; per-property typed decoding is the caller's concern.
type Repository struct {
	db *sqlite.Client
}

func NewRepository(db *sqlite.Client) *Repository {
	return &Repository{db: db}
}

// Insert writes one row with the fixed columns plus the supplied property
// columns (already sanitized and encoded). Unsupplied properties stay NULL.
func (r *Repository) Insert(ctx context.Context, classID, id, name, icon, stateID string, now int64, props map[string]value.Value) error {
	table := value.TableName(classID)

	columns := []string{"id", "name", "icon", "current_state_id", "created_at", "updated_at"}
	args := []any{id, name, nullable(icon), stateID, now, now}

	for _, column := range sortedKeys(props) {
		columns = append(columns, column)
		args = append(args, props[column])
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table, strings.Join(columns, ", "), placeholders)

	return classErr(r.db.Exec(ctx, query, args...))
}

func (r *Repository) Get(ctx context.Context, classID, objectID string) (value.Row, error) {
	table := value.TableName(classID)

	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT * FROM %s WHERE id = ?`, table), objectID)
	if err != nil {
		return nil, classErr(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// GetAll returns every row of the class's table, optionally filtered by a
// parameterized WHERE clause.
func (r *Repository) GetAll(ctx context.Context, classID, whereClause string, args ...any) ([]value.Row, error) {
	table := value.TableName(classID)

	query := fmt.Sprintf(`SELECT * FROM %s`, table)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, classErr(err)
	}
	return rows, nil
}

// Update rewrites the supplied property columns and always refreshes
// updated_at.
func (r *Repository) Update(ctx context.Context, classID, objectID string, now int64, props map[string]value.Value) error {
	table := value.TableName(classID)

	var sets []string
	var args []any
	for _, column := range sortedKeys(props) {
		sets = append(sets, column+" = ?")
		args = append(args, props[column])
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, objectID)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`, table, strings.Join(sets, ", "))
	return classErr(r.db.Exec(ctx, query, args...))
}

func (r *Repository) UpdateState(ctx context.Context, classID, objectID, stateID string, now int64) error {
	table := value.TableName(classID)
	query := fmt.Sprintf(`UPDATE %s SET current_state_id = ?, updated_at = ? WHERE id = ?`, table)
	return classErr(r.db.Exec(ctx, query, stateID, now, objectID))
}

func (r *Repository) Delete(ctx context.Context, classID, objectID string) error {
	table := value.TableName(classID)
	return classErr(r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), objectID))
}

func (r *Repository) Count(ctx context.Context, classID, whereClause string, args ...any) (int64, error) {
	table := value.TableName(classID)

	query := fmt.Sprintf(`SELECT COUNT(*) AS count FROM %s`, table)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return 0, classErr(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0]["count"].Int(), nil
}

// Search builds a parameterized predicate over the sanitized property
// column. The term itself is not wildcard-escaped: a literal % or _ in it
// behaves as a wildcard.
func (r *Repository) Search(ctx context.Context, classID, propertyName, term string, matchType SearchMatchType) ([]value.Row, error) {
	column := value.SanitizeColumnName(propertyName)

	var whereClause, searchValue string
	switch matchType {
	case MatchExact:
		whereClause = column + " = ?"
		searchValue = term
	case MatchContains:
		whereClause = column + " LIKE ?"
		searchValue = "%" + term + "%"
	case MatchStartsWith:
		whereClause = column + " LIKE ?"
		searchValue = term + "%"
	case MatchEndsWith:
		whereClause = column + " LIKE ?"
		searchValue = "%" + term
	default:
		return nil, fmt.Errorf("invalid match type: %s", matchType)
	}

	return r.GetAll(ctx, classID, whereClause, searchValue)
}

// classErr maps the engine's missing-table failure onto ErrClassNotFound so
// callers see "class gone", not a SQL error, after a cascade delete.
func classErr(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return ErrClassNotFound
	}
	return err
}

func sortedKeys(m map[string]value.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
