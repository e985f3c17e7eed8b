package history

import (
	"log/slog"

	"github.com/lepinkainen/shelfcovers/internal/cmdutil"
	"github.com/lepinkainen/shelfcovers/internal/config"
	shelferrors "github.com/lepinkainen/shelfcovers/internal/errors"
	"github.com/lepinkainen/shelfcovers/internal/fileutil"
)

// ExtractParams configures the extract command
type ExtractParams struct {
	Input      string
	WriteJSON  bool
	JSONOutput string
}

// RunExtract parses the page, lists every record and optionally writes the JSON export
// and the datastore rows.
func RunExtract(params ExtractParams) error {
	records, err := ParseFile(params.Input)
	if stop, err := handleNoData(err); stop {
		return err
	}

	for _, r := range records {
		slog.Info("Book",
			"id", r.ID,
			"title", r.Title,
			"author", r.Author,
			"isbn", r.ISBN,
			"date", r.Date,
			"status", r.Status)
	}

	cfg := cmdutil.BaseCommandConfig{JSONOutput: params.JSONOutput, WriteJSON: params.WriteJSON}
	if params.WriteJSON {
		if err := cmdutil.SetupOutputDir(&cfg); err != nil {
			return err
		}
		if err := writeJSON(records, cfg.JSONOutput); err != nil {
			return err
		}
	}

	if err := writeBooksToDatastore(records, config.Download().Dir, params.Input); err != nil {
		slog.Error("Failed to write datastore", "error", err)
	}
	return nil
}

// RunExport parses the page and writes the records to output as JSON
func RunExport(input, output string) error {
	records, err := ParseFile(input)
	if stop, err := handleNoData(err); stop {
		return err
	}

	if output == "" {
		output = config.JSONPath()
	}
	return writeJSON(records, output)
}

func writeJSON(data any, path string) error {
	if _, err := fileutil.WriteJSONFile(data, path, config.OverwriteFiles); err != nil {
		return shelferrors.NewExportError(path, err)
	}
	return nil
}
