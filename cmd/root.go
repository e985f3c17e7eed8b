package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/shelfcovers/cmd/history"
	"github.com/lepinkainen/shelfcovers/internal/cache"
	"github.com/lepinkainen/shelfcovers/internal/config"
)

var (
	runExtract  = history.RunExtract
	runDownload = history.RunDownload
	runExport   = history.RunExport
	runGallery  = history.RunGallery
	runFetch    = history.RunFetch
)

// CLI represents the complete command structure for the shelfcovers application
type CLI struct {
	// Global flags
	ConfigDir string `help:"Directory holding config.yaml" default:"." type:"path"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`

	// Datasette flags
	Datasette   bool   `help:"Write records to the SQLite datastore"`
	DatasetteDB string `help:"Path to SQLite database file (defaults to datasette.dbfile)"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file (defaults to cache.dbfile)"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)"`

	Extract  ExtractCmd  `cmd:"" help:"List the books found in a saved borrowing-history page"`
	Download DownloadCmd `cmd:"" help:"Download the cover images of every book in the history"`
	Export   ExportCmd   `cmd:"" help:"Write the books of a borrowing-history page to JSON"`
	Gallery  GalleryCmd  `cmd:"" help:"Render an HTML gallery of the downloaded covers"`
	Fetch    FetchCmd    `cmd:"" help:"Save a borrowing-history page from the library website using Chrome"`
	Cache    CacheCmd    `cmd:"" help:"Manage the lookup cache"`
}

// ExtractCmd represents the extract command
type ExtractCmd struct {
	Input      string `short:"f" help:"Path to the saved borrowing-history HTML page"`
	JSON       bool   `help:"Also write the records to JSON"`
	JSONOutput string `help:"Path to JSON output file (defaults to json.path)"`
}

// DownloadCmd represents the download command
type DownloadCmd struct {
	Input            string `short:"f" help:"Path to the saved borrowing-history HTML page" xor:"source"`
	FromJSON         string `help:"Read records from a JSON export instead of HTML" xor:"source"`
	Dir              string `short:"d" help:"Cover directory (defaults to download.dir)"`
	TUI              bool   `help:"Show an interactive progress view"`
	NoPauseAfterSkip bool   `help:"Do not pause after covers that already exist"`
	OpenLibrary      bool   `help:"Look up missing covers on Open Library by ISBN"`
	JSON             bool   `help:"Write the records with their final status to JSON"`
	JSONOutput       string `help:"Path to JSON output file (defaults to json.path)"`
}

// ExportCmd represents the export command
type ExportCmd struct {
	Input  string `short:"f" help:"Path to the saved borrowing-history HTML page"`
	Output string `short:"o" help:"Path to JSON output file (defaults to json.path)"`
}

// GalleryCmd represents the gallery command
type GalleryCmd struct {
	Input    string `short:"f" help:"Path to the saved borrowing-history HTML page" xor:"source"`
	FromJSON string `help:"Read records from a JSON export instead of HTML" xor:"source"`
	Output   string `short:"o" help:"Path to the gallery HTML file (defaults to gallery.path)"`
	Dir      string `short:"d" help:"Cover directory (defaults to download.dir)"`
}

// FetchCmd represents the fetch command
type FetchCmd struct {
	URL      string        `help:"Borrowing-history page URL" required:""`
	Output   string        `short:"o" help:"Where to save the rendered HTML" default:"borrowing_history.html"`
	Headless bool          `help:"Run Chrome without a window (only works when no login is needed)"`
	Timeout  time.Duration `help:"How long to wait for the history to appear" default:"5m"`
}

// CacheCmd groups the cache subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Delete all entries of one cache source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("shelfcovers"),
		kong.Description("Extract borrowed books from a saved library history page and download their covers."),
		kong.UsageOnError(),
	)

	initLogging(cli.Verbose)
	if err := initConfig(cli.ConfigDir); err != nil {
		slog.Error("Fatal error in config file", "error", err)
		os.Exit(1)
	}
	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// initConfig loads config.yaml from dir, writing one with the defaults when missing.
// SHELFCOVERS_* environment variables override file values.
func initConfig(dir string) error {
	config.SetDefaults()

	viper.SetEnvPrefix("SHELFCOVERS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		path := filepath.Join(dir, "config.yaml")
		slog.Info("Config file not found, writing default config file", "path", path)
		if err := viper.SafeWriteConfigAs(path); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}

	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	config.SetVerbose(cli.Verbose)

	// flags only override config values when given
	if cli.Datasette {
		viper.Set("datasette.enabled", true)
	}
	if cli.DatasetteDB != "" {
		viper.Set("datasette.dbfile", cli.DatasetteDB)
	}
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
}

// Run methods for each command

func (e *ExtractCmd) Run() error {
	input, err := requireInput(e.Input)
	if err != nil {
		return err
	}
	return runExtract(history.ExtractParams{
		Input:      input,
		WriteJSON:  e.JSON,
		JSONOutput: e.JSONOutput,
	})
}

func (d *DownloadCmd) Run() error {
	input := d.Input
	if d.FromJSON == "" {
		var err error
		if input, err = requireInput(d.Input); err != nil {
			return err
		}
	}
	return runDownload(context.Background(), history.DownloadParams{
		Input:            input,
		FromJSON:         d.FromJSON,
		Dir:              d.Dir,
		TUI:              d.TUI,
		NoPauseAfterSkip: d.NoPauseAfterSkip,
		OpenLibrary:      d.OpenLibrary,
		WriteJSON:        d.JSON,
		JSONOutput:       d.JSONOutput,
	})
}

func (e *ExportCmd) Run() error {
	input, err := requireInput(e.Input)
	if err != nil {
		return err
	}
	return runExport(input, e.Output)
}

func (g *GalleryCmd) Run() error {
	input := g.Input
	if g.FromJSON == "" {
		var err error
		if input, err = requireInput(g.Input); err != nil {
			return err
		}
	}
	return runGallery(history.GalleryParams{
		Input:    input,
		FromJSON: g.FromJSON,
		Output:   g.Output,
		CoverDir: g.Dir,
	})
}

func (f *FetchCmd) Run() error {
	return runFetch(context.Background(), history.FetchParams{
		URL:      f.URL,
		Output:   f.Output,
		Headless: f.Headless,
		Timeout:  f.Timeout,
	})
}

// requireInput falls back to history.file from the config
func requireInput(input string) (string, error) {
	if input == "" {
		input = viper.GetString("history.file")
	}
	if input == "" {
		return "", fmt.Errorf("input HTML file is required (provide via --input flag or history.file in config)")
	}
	return input, nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
