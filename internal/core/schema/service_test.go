package schema

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supernova/supernova/config"
	"github.com/supernova/supernova/internal/core/value"
	"github.com/supernova/supernova/internal/storage/sqlite"
)

func newTestService(t *testing.T) (*Service, *sqlite.Client) {
	t.Helper()

	cfg := &config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := sqlite.NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background(), zap.NewNop()))

	tables := NewTableEngine(zap.NewNop())
	return NewService(NewRepository(db, tables), zap.NewNop()), db
}

func tableColumns(t *testing.T, db *sqlite.Client, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(context.Background(), "PRAGMA table_info("+table+")")
	require.NoError(t, err)

	cols := make(map[string]bool, len(rows))
	for _, row := range rows {
		cols[row["name"].Text()] = true
	}
	return cols
}

func TestCreateClassCreatesPhysicalTable(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task", Icon: "checklist"})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)

	cols := tableColumns(t, db, value.TableName(c.ID))
	for _, fixed := range FixedColumns {
		assert.True(t, cols[fixed], fixed)
	}
}

func TestCreateClassRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateClass(context.Background(), &CreateClassRequest{})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetAllClassesOrderedByName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		_, err := svc.CreateClass(ctx, &CreateClassRequest{Name: name})
		require.NoError(t, err)
	}

	classes, err := svc.GetAllClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, "Apple", classes[0].Name)
	assert.Equal(t, "Mango", classes[1].Name)
	assert.Equal(t, "Zebra", classes[2].Name)
}

func TestUpdateClass(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	updated, err := svc.UpdateClass(ctx, c.ID, &UpdateClassRequest{Name: "Chore", Icon: "broom"})
	require.NoError(t, err)
	assert.Equal(t, "Chore", updated.Name)
	assert.Equal(t, "broom", updated.Icon)

	got, err := svc.GetClass(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chore", got.Name)
}

func TestColumnSupersetInvariant(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	reqs := []*CreatePropertyRequest{
		{Name: "Owner", Type: PropertyText, IsRequired: true, Order: 0},
		{Name: "Due Date", Type: PropertyDate, Order: 1},
		{Name: "Budget", Type: PropertyCurrency, Order: 2},
		{Name: "Attachments", Type: PropertyFiles, Order: 3},
	}
	for _, req := range reqs {
		_, err := svc.CreateProperty(ctx, c.ID, req)
		require.NoError(t, err)
	}

	// Every property in the catalog must have a physical column.
	props, err := svc.GetProperties(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, props, 4)

	cols := tableColumns(t, db, value.TableName(c.ID))
	for _, p := range props {
		assert.True(t, cols[value.SanitizeColumnName(p.Name)], p.Name)
	}
}

func TestCreatePropertyRejectsSanitizedCollision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	_, err = svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Owner!", Type: PropertyText})
	require.NoError(t, err)

	// "owner?" sanitizes to the same column as "Owner!".
	_, err = svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "owner?", Type: PropertyText})
	assert.ErrorIs(t, err, ErrColumnConflict)

	// Fixed columns are also protected.
	_, err = svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Name", Type: PropertyText})
	assert.ErrorIs(t, err, ErrColumnConflict)
}

func TestCreatePropertyRejectsInvalidType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	_, err = svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Owner", Type: "hologram"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestPropertyOrderAndUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	a, err := svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Alpha", Type: PropertyText, Order: 2})
	require.NoError(t, err)
	b, err := svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Beta", Type: PropertyText, Order: 1})
	require.NoError(t, err)

	props, err := svc.GetProperties(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, b.ID, props[0].ID)

	require.NoError(t, svc.UpdatePropertyOrder(ctx, a.ID, 0))
	props, err = svc.GetProperties(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, props[0].ID)

	required := true
	updated, err := svc.UpdateProperty(ctx, a.ID, &UpdatePropertyRequest{IsRequired: &required})
	require.NoError(t, err)
	assert.True(t, updated.IsRequired)
}

func TestDeletePropertyKeepsColumn(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	p, err := svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Owner", Type: PropertyText})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(ctx, p.ID))

	props, err := svc.GetProperties(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, props)

	// The physical column is soft-orphaned, not dropped.
	cols := tableColumns(t, db, value.TableName(c.ID))
	assert.True(t, cols["owner"])
}

func TestDropColumnUnsupported(t *testing.T) {
	_, db := newTestService(t)

	engine := NewTableEngine(zap.NewNop())
	err := engine.DropColumn(context.Background(), db.DB, "some-class", "owner")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLongTextPersistsLegacyFlag(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Note"})
	require.NoError(t, err)

	p, err := svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Body", Type: PropertyLongText})
	require.NoError(t, err)

	rows, err := db.Query(ctx, `SELECT is_long_text FROM property WHERE id = ?`, p.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["is_long_text"].Int())

	props, err := svc.GetProperties(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, PropertyLongText, props[0].Type)
}

func TestStatesAndActions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	inactive, err := svc.CreateState(ctx, c.ID, &CreateStateRequest{Name: "Inactive", Type: StateInactive, Order: 0})
	require.NoError(t, err)
	active, err := svc.CreateState(ctx, c.ID, &CreateStateRequest{Name: "Active", Type: StateActive, Order: 1})
	require.NoError(t, err)

	states, err := svc.GetStates(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, inactive.ID, states[0].ID)

	a, err := svc.CreateAction(ctx, c.ID, &CreateActionRequest{
		Name:            "Archive",
		TriggerType:     TriggerManual,
		AllowedStateIDs: []string{inactive.ID, active.ID},
	})
	require.NoError(t, err)

	actions, err := svc.GetActions(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.ElementsMatch(t, []string{inactive.ID, active.ID}, actions[0].AllowedStateIDs)

	require.NoError(t, svc.DeleteAction(ctx, a.ID))
	actions, err = svc.GetActions(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestDeleteClassCascades(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClass(ctx, &CreateClassRequest{Name: "Task"})
	require.NoError(t, err)

	_, err = svc.CreateProperty(ctx, c.ID, &CreatePropertyRequest{Name: "Owner", Type: PropertyText})
	require.NoError(t, err)
	st, err := svc.CreateState(ctx, c.ID, &CreateStateRequest{Name: "Active", Type: StateActive})
	require.NoError(t, err)
	_, err = svc.CreateAction(ctx, c.ID, &CreateActionRequest{Name: "Close", AllowedStateIDs: []string{st.ID}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClass(ctx, c.ID))

	_, err = svc.GetClass(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, table := range []string{"property", "state", "action"} {
		rows, err := db.Query(ctx, `SELECT id FROM `+table+` WHERE entity_class_id = ?`, c.ID)
		require.NoError(t, err)
		assert.Empty(t, rows, table)
	}

	allowed, err := db.Query(ctx, `SELECT action_id FROM action_allowed_state`)
	require.NoError(t, err)
	assert.Empty(t, allowed)

	// The physical table is gone with the metadata.
	rows, err := db.Query(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, value.TableName(c.ID))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
