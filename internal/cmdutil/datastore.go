package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/shelfcovers/internal/datastore"
	"github.com/spf13/viper"
)

// newSQLiteStore and newDatasetteClient are swapped in tests
var (
	newSQLiteStore = func(path string) datastore.Store { return datastore.NewSQLiteStore(path) }

	newDatasetteClient = func(url, token string) datastore.Store { return datastore.NewDatasetteClient(url, token) }
)

// WriteToDatastore writes items to table when datasette output is enabled.
// The local mode writes a SQLite file, the remote mode posts to a Datasette instance.
func WriteToDatastore[T any](items []T, schema, table, description string, toRow func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}

	var store datastore.Store
	switch mode := viper.GetString("datasette.mode"); mode {
	case "", "local":
		store = newSQLiteStore(viper.GetString("datasette.dbfile"))
	case "remote":
		store = newDatasetteClient(viper.GetString("datasette.remote_url"), viper.GetString("datasette.api_token"))
	default:
		return fmt.Errorf("unknown datasette mode %q", mode)
	}

	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(schema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, toRow(item))
	}

	if err := store.BatchInsert(datastore.DatabaseName, table, rows); err != nil {
		return fmt.Errorf("failed to insert %s: %w", description, err)
	}

	slog.Info("Wrote to datastore", "table", table, "records", len(rows), "description", description)
	return nil
}
