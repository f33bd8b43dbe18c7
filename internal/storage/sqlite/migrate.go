package sqlite

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/supernova/supernova/internal/core/value"
)

// Migrate brings older on-disk schemas forward. Forward-only and idempotent:
// every check is a no-op when already applied, so it runs on every startup
// before any other access. Migrations only add columns, never remove them.
func (c *Client) Migrate(ctx context.Context, logger *zap.Logger) error {
	log := logger.Named("migrations")

	// 1: state rows predating lifecycle types get the type column.
	ok, err := c.hasColumn(ctx, "state", "type")
	if err != nil {
		return err
	}
	if !ok {
		log.Info("adding type column to state table")
		if err := c.Exec(ctx, `ALTER TABLE state ADD COLUMN type TEXT NOT NULL DEFAULT 'inactive'`); err != nil {
			return fmt.Errorf("state type migration failed: %w", err)
		}
	}

	// 2: property rows predating the long-text flag.
	ok, err = c.hasColumn(ctx, "property", "is_long_text")
	if err != nil {
		return err
	}
	if !ok {
		log.Info("adding is_long_text column to property table")
		if err := c.Exec(ctx, `ALTER TABLE property ADD COLUMN is_long_text INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("property is_long_text migration failed: %w", err)
		}
	}

	// 3: physical tables created before name/icon became fixed columns.
	classes, err := c.Query(ctx, `SELECT id FROM entity_class`)
	if err != nil {
		return err
	}

	for _, row := range classes {
		classID := row["id"].Text()
		table := value.TableName(classID)

		exists, err := c.tableExists(ctx, table)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}

		ok, err := c.hasColumn(ctx, table, "name")
		if err != nil {
			return err
		}
		if !ok {
			log.Info("adding name column", zap.String("table", table))
			if err := c.Exec(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN name TEXT NOT NULL DEFAULT 'Unnamed'`, table)); err != nil {
				return fmt.Errorf("name migration failed for %s: %w", table, err)
			}
		}

		ok, err = c.hasColumn(ctx, table, "icon")
		if err != nil {
			return err
		}
		if !ok {
			log.Info("adding icon column", zap.String("table", table))
			if err := c.Exec(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN icon TEXT`, table)); err != nil {
				return fmt.Errorf("icon migration failed for %s: %w", table, err)
			}
		}
	}

	return nil
}

func (c *Client) hasColumn(ctx context.Context, table, column string) (bool, error) {
	rows, err := c.Query(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if row["name"].Text() == column {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) tableExists(ctx context.Context, table string) (bool, error) {
	rows, err := c.Query(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
