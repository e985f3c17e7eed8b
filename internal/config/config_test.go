package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestSetOverwriteFiles(t *testing.T) {
	// Save the original value to restore after the test
	originalValue := OverwriteFiles
	t.Cleanup(func() { OverwriteFiles = originalValue })

	testCases := []struct {
		name     string
		input    bool
		expected bool
	}{
		{
			name:     "set to true",
			input:    true,
			expected: true,
		},
		{
			name:     "set to false",
			input:    false,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SetOverwriteFiles(tc.input)
			assert.Equal(t, tc.expected, OverwriteFiles)
		})
	}
}

func TestDownloadDefaults(t *testing.T) {
	resetViper(t)
	SetDefaults()

	s := Download()
	assert.Equal(t, "./BorrowHistory/book_covers/", s.Dir)
	assert.Equal(t, 15*time.Second, s.Timeout)
	assert.Equal(t, 500*time.Millisecond, s.Pause)
	assert.True(t, s.PauseAfterSkip)
	assert.Equal(t, 100, s.MinBytes)
	assert.Equal(t, DefaultUserAgent, s.UserAgent)

	assert.Equal(t, "./BorrowHistory/download_report.md", ReportPath())
	assert.Equal(t, "./BorrowHistory/books.json", JSONPath())
	assert.Equal(t, "./BorrowHistory/gallery.html", GalleryPath())
	assert.Equal(t, 160, GalleryThumbWidth())
	assert.Empty(t, ItemClasses())
	assert.False(t, OpenLibraryEnabled())
}

func TestDownloadOverrides(t *testing.T) {
	resetViper(t)
	SetDefaults()

	viper.Set("download.dir", "/tmp/covers")
	viper.Set("download.timeout", "3s")
	viper.Set("download.pause", "0s")
	viper.Set("download.pauseafterskip", false)
	viper.Set("download.minbytes", 512)

	s := Download()
	assert.Equal(t, "/tmp/covers", s.Dir)
	assert.Equal(t, 3*time.Second, s.Timeout)
	assert.Equal(t, time.Duration(0), s.Pause)
	assert.False(t, s.PauseAfterSkip)
	assert.Equal(t, 512, s.MinBytes)
}

func TestDownloadInvalidValuesFallBack(t *testing.T) {
	resetViper(t)
	SetDefaults()

	viper.Set("download.timeout", "soon")
	viper.Set("download.pause", "-1s")
	viper.Set("download.minbytes", -5)
	viper.Set("download.useragent", "")

	s := Download()
	assert.Equal(t, DefaultTimeout, s.Timeout)
	assert.Equal(t, 500*time.Millisecond, s.Pause)
	assert.Equal(t, DefaultMinBytes, s.MinBytes)
	assert.Equal(t, DefaultUserAgent, s.UserAgent)
}

func TestItemClasses(t *testing.T) {
	resetViper(t)
	viper.Set("extract.itemclasses", []string{" loan-card ", "", "history-row"})

	assert.Equal(t, []string{"loan-card", "history-row"}, ItemClasses())
}

func TestInitConfig(t *testing.T) {
	resetViper(t)
	originalValue := OverwriteFiles
	t.Cleanup(func() { OverwriteFiles = originalValue })

	OverwriteFiles = false
	InitConfig()
	assert.True(t, OverwriteFiles)
}
