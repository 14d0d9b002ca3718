package readmodel_test

import (
	"context"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/content-eventbus-go/internal/readmodel"
	"github.com/AntonStoeckl/content-eventbus-go/testutil/pgdb"
)

func Test_Postgres_Upsert_Update_Delete_With_Every_Driver(t *testing.T) {
	for driver, db := range pgdb.Adapters(t) {
		t.Run(driver, func(t *testing.T) {
			// setup
			ctx := context.Background()
			table, err := readmodel.NewTable(db, widgetSchema, readmodel.WithTablePrefix(pgdb.TablePrefix()))
			require.NoError(t, err)
			pgdb.DropTables(t, db, table.Name())
			require.NoError(t, table.CreateSchema(ctx))
			require.NoError(t, table.CreateSchema(ctx))

			// act
			require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "first")))
			require.NoError(t, table.Upsert(ctx, widgetRow("w1", "g1", "second")))
			require.NoError(t, table.Upsert(ctx, widgetRow("w2", "g1", "other")))
			updated, updateErr := table.Update(ctx, "w2", goqu.Record{"enabled": false})
			deleteErr := table.Delete(ctx, "w1")

			// assert
			require.NoError(t, updateErr)
			require.NoError(t, deleteErr)
			assert.True(t, updated)

			widgets, err := readmodel.Select(ctx, table, selectWidgets(table), scanWidget)
			require.NoError(t, err)
			require.Len(t, widgets, 1)
			assert.Equal(t, "w2", widgets[0].Key)
			assert.Equal(t, "other", widgets[0].Name)
			assert.False(t, widgets[0].Enabled)
			assert.JSONEq(t, `{"color":"red"}`, widgets[0].Details)
		})
	}
}
