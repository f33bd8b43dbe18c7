package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/supernova/supernova/internal/core/value"
)

// ErrUnsupported is returned for schema operations the engine cannot
// perform. It is explicit: unsupported operations never succeed silently.
var ErrUnsupported = errors.New("schema operation not supported")

// FixedColumns are present in every physical table regardless of the
// class's properties. Property columns may not collide with them.
var FixedColumns = []string{"id", "name", "icon", "current_state_id", "created_at", "updated_at"}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TableEngine translates catalog mutations into physical DDL against the
// per-class tables. Callers run it inside the same transaction as the
// metadata change so the catalog and the physical schema cannot diverge.
type TableEngine struct {
	logger *zap.Logger
}

func NewTableEngine(logger *zap.Logger) *TableEngine {
	return &TableEngine{logger: logger.Named("tables")}
}

// CreateTable creates the physical table for a class with the fixed base
// columns.
func (e *TableEngine) CreateTable(ctx context.Context, tx execer, classID string) error {
	table := value.TableName(classID)

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		icon TEXT,
		current_state_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`, table)

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	e.logger.Info("created dynamic table", zap.String("table", table))
	return nil
}

// AddColumn adds the physical column for a property. The column is always
// added nullable: SQLite rejects NOT NULL without a default on non-empty
// tables, and requiredness is enforced at validation time instead.
func (e *TableEngine) AddColumn(ctx context.Context, tx execer, classID string, p *Property) error {
	table := value.TableName(classID)
	column := value.SanitizeColumnName(p.Name)

	ddl := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, p.Type.SQLType())
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to add column %s to %s: %w", column, table, err)
	}

	e.logger.Info("added column", zap.String("table", table), zap.String("column", column))
	return nil
}

// DropTable drops a class's physical table. The caller must have removed
// the class's metadata in the same transaction.
func (e *TableEngine) DropTable(ctx context.Context, tx execer, classID string) error {
	table := value.TableName(classID)

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	e.logger.Info("dropped dynamic table", zap.String("table", table))
	return nil
}

// DropColumn is not implemented: SQLite cannot drop columns without
// rebuilding the table, and property deletion intentionally soft-orphans
// the column instead.
func (e *TableEngine) DropColumn(ctx context.Context, tx execer, classID, columnName string) error {
	return fmt.Errorf("drop column %s on %s: %w", columnName, value.TableName(classID), ErrUnsupported)
}
