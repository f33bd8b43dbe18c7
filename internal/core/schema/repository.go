package schema

import (
	"context"
	"database/sql"
	"time"

	"github.com/supernova/supernova/internal/core/value"
	"github.com/supernova/supernova/internal/storage/sqlite"
)

// Repository is the schema catalog: it owns the four metadata relations and
// keeps them in step with the physical tables through the table engine.
type Repository struct {
	db     *sqlite.Client
	tables *TableEngine
}

func NewRepository(db *sqlite.Client, tables *TableEngine) *Repository {
	return &Repository{db: db, tables: tables}
}

// CreateClass inserts the metadata row and creates the physical table in
// one transaction; partial application is impossible.
func (r *Repository) CreateClass(ctx context.Context, c *EntityClass) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entity_class (id, name, icon, description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, nullable(c.Icon), nullable(c.Description), c.CreatedAt.Unix(), c.UpdatedAt.Unix(),
		)
		if err != nil {
			return err
		}
		return r.tables.CreateTable(ctx, tx, c.ID)
	})
}

func (r *Repository) GetClass(ctx context.Context, id string) (*EntityClass, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM entity_class WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapClass(rows[0]), nil
}

func (r *Repository) GetAllClasses(ctx context.Context) ([]*EntityClass, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM entity_class ORDER BY name`)
	if err != nil {
		return nil, err
	}

	classes := make([]*EntityClass, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, mapClass(row))
	}
	return classes, nil
}

func (r *Repository) UpdateClass(ctx context.Context, c *EntityClass) error {
	c.UpdatedAt = time.Now()
	return r.db.Exec(ctx, `
		UPDATE entity_class SET name = ?, icon = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, nullable(c.Icon), nullable(c.Description), c.UpdatedAt.Unix(), c.ID,
	)
}

// DeleteClass removes the class row, its dependent metadata and its
// physical table together. Metadata cascades are issued explicitly so the
// result does not depend on the connection's foreign-key mode.
func (r *Repository) DeleteClass(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		statements := []string{
			`DELETE FROM action_allowed_state WHERE action_id IN (SELECT id FROM action WHERE entity_class_id = ?)`,
			`DELETE FROM action WHERE entity_class_id = ?`,
			`DELETE FROM state WHERE entity_class_id = ?`,
			`DELETE FROM property WHERE entity_class_id = ?`,
			`DELETE FROM entity_class WHERE id = ?`,
		}
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		return r.tables.DropTable(ctx, tx, id)
	})
}

// CreateProperty inserts the metadata row and adds the physical column in
// one transaction.
func (r *Repository) CreateProperty(ctx context.Context, p *Property) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO property (id, entity_class_id, name, type, is_required, is_long_text, order_index, reference_target_class_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.EntityClassID, p.Name, string(p.Type), boolToInt(p.IsRequired),
			boolToInt(p.Type == PropertyLongText), p.Order, nullable(p.ReferenceTargetClassID),
		)
		if err != nil {
			return err
		}
		return r.tables.AddColumn(ctx, tx, p.EntityClassID, p)
	})
}

func (r *Repository) GetProperty(ctx context.Context, id string) (*Property, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM property WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapProperty(rows[0]), nil
}

func (r *Repository) GetProperties(ctx context.Context, classID string) ([]*Property, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM property WHERE entity_class_id = ? ORDER BY order_index`, classID)
	if err != nil {
		return nil, err
	}

	props := make([]*Property, 0, len(rows))
	for _, row := range rows {
		props = append(props, mapProperty(row))
	}
	return props, nil
}

// UpdateProperty rewrites the metadata row. The physical column is not
// touched: renames and type changes soft-orphan the old column shape.
func (r *Repository) UpdateProperty(ctx context.Context, p *Property) error {
	return r.db.Exec(ctx, `
		UPDATE property SET name = ?, type = ?, is_required = ?, is_long_text = ?, reference_target_class_id = ?
		WHERE id = ?`,
		p.Name, string(p.Type), boolToInt(p.IsRequired), boolToInt(p.Type == PropertyLongText),
		nullable(p.ReferenceTargetClassID), p.ID,
	)
}

func (r *Repository) UpdatePropertyOrder(ctx context.Context, id string, order int) error {
	return r.db.Exec(ctx, `UPDATE property SET order_index = ? WHERE id = ?`, order, id)
}

// DeleteProperty removes metadata only; the physical column stays behind as
// a soft-orphan (column removal is unsupported).
func (r *Repository) DeleteProperty(ctx context.Context, id string) error {
	return r.db.Exec(ctx, `DELETE FROM property WHERE id = ?`, id)
}

func (r *Repository) CreateState(ctx context.Context, s *State) error {
	return r.db.Exec(ctx, `
		INSERT INTO state (id, entity_class_id, name, type, icon, color, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.EntityClassID, s.Name, string(s.Type), nullable(s.Icon), nullable(s.Color), s.Order,
	)
}

func (r *Repository) GetState(ctx context.Context, id string) (*State, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM state WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapState(rows[0]), nil
}

func (r *Repository) GetStates(ctx context.Context, classID string) ([]*State, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM state WHERE entity_class_id = ? ORDER BY order_index`, classID)
	if err != nil {
		return nil, err
	}

	states := make([]*State, 0, len(rows))
	for _, row := range rows {
		states = append(states, mapState(row))
	}
	return states, nil
}

func (r *Repository) DeleteState(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM action_allowed_state WHERE state_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM state WHERE id = ?`, id)
		return err
	})
}

// CreateAction inserts the action row and its allow-list rows together.
func (r *Repository) CreateAction(ctx context.Context, a *Action) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO action (id, entity_class_id, name, icon, description, trigger_type, order_index, trigger_state_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.EntityClassID, a.Name, nullable(a.Icon), nullable(a.Description),
			string(a.TriggerType), a.Order, nullable(a.TriggerStateID),
		)
		if err != nil {
			return err
		}

		for _, stateID := range a.AllowedStateIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO action_allowed_state (action_id, state_id) VALUES (?, ?)`,
				a.ID, stateID,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetActions(ctx context.Context, classID string) ([]*Action, error) {
	rows, err := r.db.Query(ctx, `SELECT * FROM action WHERE entity_class_id = ? ORDER BY order_index`, classID)
	if err != nil {
		return nil, err
	}

	actions := make([]*Action, 0, len(rows))
	for _, row := range rows {
		a := mapAction(row)

		allowed, err := r.db.Query(ctx, `SELECT state_id FROM action_allowed_state WHERE action_id = ?`, a.ID)
		if err != nil {
			return nil, err
		}
		a.AllowedStateIDs = make([]string, 0, len(allowed))
		for _, ar := range allowed {
			a.AllowedStateIDs = append(a.AllowedStateIDs, ar["state_id"].Text())
		}

		actions = append(actions, a)
	}
	return actions, nil
}

func (r *Repository) DeleteAction(ctx context.Context, id string) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM action_allowed_state WHERE action_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM action WHERE id = ?`, id)
		return err
	})
}

func mapClass(row value.Row) *EntityClass {
	return &EntityClass{
		ID:          row["id"].Text(),
		Name:        row["name"].Text(),
		Icon:        row["icon"].Text(),
		Description: row["description"].Text(),
		CreatedAt:   time.Unix(row["created_at"].Int(), 0),
		UpdatedAt:   time.Unix(row["updated_at"].Int(), 0),
	}
}

func mapProperty(row value.Row) *Property {
	t := PropertyType(row["type"].Text())
	if t == PropertyText && row["is_long_text"].Int() == 1 {
		// Rows written before longText became a distinct type carry
		// type='text' with the legacy flag set.
		t = PropertyLongText
	}
	return &Property{
		ID:                     row["id"].Text(),
		EntityClassID:          row["entity_class_id"].Text(),
		Name:                   row["name"].Text(),
		Type:                   t,
		IsRequired:             row["is_required"].Int() == 1,
		Order:                  int(row["order_index"].Int()),
		ReferenceTargetClassID: row["reference_target_class_id"].Text(),
	}
}

func mapState(row value.Row) *State {
	t := StateType(row["type"].Text())
	if !t.Valid() {
		t = StateInactive
	}
	return &State{
		ID:            row["id"].Text(),
		EntityClassID: row["entity_class_id"].Text(),
		Name:          row["name"].Text(),
		Type:          t,
		Icon:          row["icon"].Text(),
		Color:         row["color"].Text(),
		Order:         int(row["order_index"].Int()),
	}
}

func mapAction(row value.Row) *Action {
	return &Action{
		ID:             row["id"].Text(),
		EntityClassID:  row["entity_class_id"].Text(),
		Name:           row["name"].Text(),
		Icon:           row["icon"].Text(),
		Description:    row["description"].Text(),
		TriggerType:    ActionTriggerType(row["trigger_type"].Text()),
		Order:          int(row["order_index"].Int()),
		TriggerStateID: row["trigger_state_id"].Text(),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
