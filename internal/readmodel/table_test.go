package readmodel_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/internal/adapters"
	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/sqlitedb"
)

type widget struct {
	Key      string
	Group    string
	Name     string
	Enabled  bool
	Details  string
	Archived sql.NullString
}

var widgetSchema = readmodel.Schema{
	Table:      "widgets",
	NaturalKey: "widget_key",
	Columns: []readmodel.Column{
		{Name: "group_id", Type: readmodel.Text},
		{Name: "name", Type: readmodel.Text},
		{Name: "enabled", Type: readmodel.Boolean},
		{Name: "details", Type: readmodel.JSON},
		{Name: "archived_at", Type: readmodel.Text, Nullable: true},
	},
	Indexes: []string{"group_id"},
}

func newWidgets(t *testing.T) *readmodel.Table {
	t.Helper()

	table, err := readmodel.NewTable(sqlitedb.Adapter(t), widgetSchema, readmodel.WithTablePrefix("test_"))
	require.NoError(t, err)
	require.NoError(t, table.CreateSchema(context.Background()))

	return table
}

func scanWidget(rows adapters.DBRows) (widget, error) {
	var w widget
	var details []byte

	err := rows.Scan(&w.Key, &w.Group, &w.Name, &w.Enabled, &details, &w.Archived)
	w.Details = string(details)

	return w, err
}

func selectWidgets(table *readmodel.Table) *goqu.SelectDataset {
	return table.From().
		Select("widget_key", "group_id", "name", "enabled", "details", "archived_at").
		Order(goqu.C("widget_key").Asc())
}

func widgetRow(key, group, name string) goqu.Record {
	return goqu.Record{
		"widget_key": key,
		"group_id":   group,
		"name":       name,
		"enabled":    true,
		"details":    `{"color":"red"}`,
	}
}

func Test_Upsert_Twice_Keeps_One_Row_With_Latest_Values(t *testing.T) {
	// setup
	ctx := context.Background()
	table := newWidgets(t)

	// act
	require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "first")))
	require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "second")))

	// assert
	widgets, err := readmodel.Select(ctx, table, selectWidgets(table), scanWidget)
	require.NoError(t, err)
	require.Len(t, widgets, 1)
	assert.Equal(t, "second", widgets[0].Name)
	assert.True(t, widgets[0].Enabled)
	assert.JSONEq(t, `{"color":"red"}`, widgets[0].Details)
	assert.False(t, widgets[0].Archived.Valid)
}

func Test_Upsert_Is_Idempotent(t *testing.T) {
	// setup
	ctx := context.Background()
	table := newWidgets(t)
	row := widgetRow("w1", "g1", "same")

	// act
	require.NoError(t, table.Upsert(ctx, row))
	once, err := readmodel.Select(ctx, table, selectWidgets(table), scanWidget)
	require.NoError(t, err)

	require.NoError(t, table.Upsert(ctx, row))
	twice, err := readmodel.Select(ctx, table, selectWidgets(table), scanWidget)
	require.NoError(t, err)

	// assert
	assert.Equal(t, once, twice)
}

func Test_Upsert_Rejects_Rows_Without_Natural_Key_Or_With_Unknown_Columns(t *testing.T) {
	table := newWidgets(t)

	err := table.Upsert(context.Background(), goqu.Record{"name": "x"})
	assert.ErrorIs(t, err, readmodel.ErrMissingNaturalKey)

	err = table.Upsert(context.Background(), goqu.Record{"widget_key": "w", "colour": "x"})
	assert.ErrorIs(t, err, readmodel.ErrUnknownColumnInRows)
}

func Test_Update_Writes_Only_Given_Columns(t *testing.T) {
	// setup
	ctx := context.Background()
	table := newWidgets(t)
	require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "original")))

	// act
	existed, err := table.Update(ctx, "w1", goqu.Record{"archived_at": "2025-01-01T00:00:00.000000Z", "enabled": false})
	missing, missingErr := table.Update(ctx, "nope", goqu.Record{"name": "ghost"})

	// assert
	require.NoError(t, err)
	require.NoError(t, missingErr)
	assert.True(t, existed)
	assert.False(t, missing)

	w, found, err := readmodel.SelectOne(ctx, table, selectWidgets(table).Where(goqu.Ex{"widget_key": "w1"}), scanWidget)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "original", w.Name)
	assert.False(t, w.Enabled)
	assert.Equal(t, "2025-01-01T00:00:00.000000Z", w.Archived.String)

	_, err = table.Update(ctx, "w1", goqu.Record{})
	assert.ErrorIs(t, err, readmodel.ErrEmptyChangeSet)
}

func Test_Delete_Removes_Row_And_Tolerates_Missing_Rows(t *testing.T) {
	// setup
	ctx := context.Background()
	table := newWidgets(t)
	require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "a")))
	require.NoError(t, table.Upsert(ctx, widgetRow("w2", "g2", "b")))
	require.NoError(t, table.Upsert(ctx, widgetRow("w3", "g2", "c")))

	// act
	require.NoError(t, table.Delete(ctx, "w1"))
	require.NoError(t, table.Delete(ctx, "w1"))
	removed, err := table.DeleteWhere(ctx, goqu.Ex{"group_id": "g2"})

	// assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := table.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, found, err := readmodel.SelectOne(ctx, table, selectWidgets(table).Where(goqu.Ex{"widget_key": "w1"}), scanWidget)
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_Select_Returns_Empty_Not_Nil(t *testing.T) {
	table := newWidgets(t)

	widgets, err := readmodel.Select(context.Background(), table, selectWidgets(table), scanWidget)

	require.NoError(t, err)
	assert.NotNil(t, widgets)
	assert.Empty(t, widgets)
}

func Test_Select_Filters_On_Boolean_Columns(t *testing.T) {
	// setup
	ctx := context.Background()
	table := newWidgets(t)
	require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "on")))

	off := widgetRow("w2", "g1", "off")
	off["enabled"] = false
	require.NoError(t, table.Upsert(ctx, off))

	// act
	enabled, err := readmodel.Select(ctx, table, selectWidgets(table).Where(goqu.Ex{"enabled": true}), scanWidget)

	// assert
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "w1", enabled[0].Key)
}

func Test_NewTable_Validates_Schema(t *testing.T) {
	db := sqlitedb.Adapter(t)

	tests := []struct {
		name   string
		schema readmodel.Schema
	}{
		{name: "bad_table", schema: readmodel.Schema{Table: "Bad-Name", NaturalKey: "k"}},
		{name: "surrogate_as_natural_key", schema: readmodel.Schema{Table: "t", NaturalKey: "id"}},
		{name: "duplicate_column", schema: readmodel.Schema{Table: "t", NaturalKey: "k", Columns: []readmodel.Column{{Name: "k"}}}},
		{name: "index_on_unknown", schema: readmodel.Schema{Table: "t", NaturalKey: "k", Indexes: []string{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readmodel.NewTable(db, tt.schema)

			assert.ErrorIs(t, err, readmodel.ErrInvalidSchema)
		})
	}

	_, err := readmodel.NewTable(nil, widgetSchema)
	assert.ErrorIs(t, err, readmodel.ErrNilDatabaseAdapter)

	_, err = readmodel.NewTable(db, widgetSchema, readmodel.WithTablePrefix("Bad;"))
	assert.ErrorIs(t, err, readmodel.ErrInvalidTablePrefix)
}

func Test_CreateSchema_Is_Repeatable(t *testing.T) {
	table := newWidgets(t)

	assert.NoError(t, table.CreateSchema(context.Background()))
	assert.Equal(t, "test_widgets", table.Name())
}
