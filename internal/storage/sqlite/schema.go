package sqlite

import "context"

// Metadata relations. The catalog describes user-defined classes; the
// per-class entity_<id> tables hold their instances and are created at
// runtime by the table engine.
var metadataDDL = []string{
	`CREATE TABLE IF NOT EXISTS entity_class (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		icon TEXT,
		description TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS property (
		id TEXT PRIMARY KEY,
		entity_class_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		is_required INTEGER NOT NULL DEFAULT 0,
		is_long_text INTEGER NOT NULL DEFAULT 0,
		order_index INTEGER NOT NULL DEFAULT 0,
		reference_target_class_id TEXT,
		FOREIGN KEY (entity_class_id) REFERENCES entity_class(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS state (
		id TEXT PRIMARY KEY,
		entity_class_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		icon TEXT,
		color TEXT,
		order_index INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (entity_class_id) REFERENCES entity_class(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS action (
		id TEXT PRIMARY KEY,
		entity_class_id TEXT NOT NULL,
		name TEXT NOT NULL,
		icon TEXT,
		description TEXT,
		trigger_type TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		trigger_state_id TEXT,
		FOREIGN KEY (entity_class_id) REFERENCES entity_class(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS action_allowed_state (
		action_id TEXT NOT NULL,
		state_id TEXT NOT NULL,
		PRIMARY KEY (action_id, state_id),
		FOREIGN KEY (action_id) REFERENCES action(id) ON DELETE CASCADE,
		FOREIGN KEY (state_id) REFERENCES state(id) ON DELETE CASCADE
	)`,
}

func (c *Client) createMetadataTables(ctx context.Context) error {
	for _, ddl := range metadataDDL {
		if err := c.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
