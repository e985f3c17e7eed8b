package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing JSON exports and gallery pages are replaced
	OverwriteFiles bool
	// Verbose enables debug logging
	Verbose bool
)

// Download defaults
const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout   = 15 * time.Second
	DefaultPause     = 500 * time.Millisecond
	DefaultMinBytes  = 100
)

// DownloadSettings holds the tunables for one download batch
type DownloadSettings struct {
	Dir            string
	Timeout        time.Duration
	Pause          time.Duration
	PauseAfterSkip bool
	MinBytes       int
	UserAgent      string
}

// SetDefaults registers the default value of every configuration key
func SetDefaults() {
	viper.SetDefault("OverwriteFiles", true)

	viper.SetDefault("history.file", "")

	viper.SetDefault("download.dir", "./BorrowHistory/book_covers/")
	viper.SetDefault("download.timeout", DefaultTimeout.String())
	viper.SetDefault("download.pause", DefaultPause.String())
	viper.SetDefault("download.pauseafterskip", true)
	viper.SetDefault("download.minbytes", DefaultMinBytes)
	viper.SetDefault("download.useragent", DefaultUserAgent)

	viper.SetDefault("report.path", "./BorrowHistory/download_report.md")
	viper.SetDefault("json.path", "./BorrowHistory/books.json")
	viper.SetDefault("gallery.path", "./BorrowHistory/gallery.html")
	viper.SetDefault("gallery.thumbwidth", 160)

	viper.SetDefault("extract.itemclasses", []string{})

	viper.SetDefault("datasette.enabled", false)
	viper.SetDefault("datasette.mode", "local")
	viper.SetDefault("datasette.dbfile", "./shelfcovers.db")

	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	viper.SetDefault("openlibrary.enabled", false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetVerbose sets the Verbose flag
func SetVerbose(verbose bool) {
	Verbose = verbose
}

// Download returns the current download settings.
// Unparseable durations fall back to the defaults.
func Download() DownloadSettings {
	return DownloadSettings{
		Dir:            viper.GetString("download.dir"),
		Timeout:        durationOr("download.timeout", DefaultTimeout),
		Pause:          durationOr("download.pause", DefaultPause),
		PauseAfterSkip: viper.GetBool("download.pauseafterskip"),
		MinBytes:       intOr("download.minbytes", DefaultMinBytes),
		UserAgent:      stringOr("download.useragent", DefaultUserAgent),
	}
}

// ReportPath is where the download summary is written
func ReportPath() string {
	return viper.GetString("report.path")
}

// JSONPath is the default JSON export location
func JSONPath() string {
	return viper.GetString("json.path")
}

// GalleryPath is the default gallery page location
func GalleryPath() string {
	return viper.GetString("gallery.path")
}

// GalleryThumbWidth is the thumbnail width in pixels
func GalleryThumbWidth() int {
	return intOr("gallery.thumbwidth", 160)
}

// ItemClasses returns the extra item class names configured for extraction
func ItemClasses() []string {
	var classes []string
	for _, c := range viper.GetStringSlice("extract.itemclasses") {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}
	return classes
}

// OpenLibraryEnabled reports whether missing covers are looked up on Open Library
func OpenLibraryEnabled() bool {
	return viper.GetBool("openlibrary.enabled")
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}
