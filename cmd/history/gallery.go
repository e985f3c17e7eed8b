package history

import (
	"github.com/lepinkainen/shelfcovers/internal/config"
	"github.com/lepinkainen/shelfcovers/internal/gallery"
)

// GalleryParams configures the gallery command
type GalleryParams struct {
	Input    string
	FromJSON string
	Output   string
	CoverDir string
}

// RunGallery writes an HTML page showing every record next to its downloaded cover
func RunGallery(params GalleryParams) error {
	records, err := LoadRecords(params.Input, params.FromJSON)
	if stop, err := handleNoData(err); stop {
		return err
	}

	output := params.Output
	if output == "" {
		output = config.GalleryPath()
	}
	coverDir := params.CoverDir
	if coverDir == "" {
		coverDir = config.Download().Dir
	}

	return gallery.Write(output, records, gallery.Options{
		CoverDir:   coverDir,
		ThumbWidth: config.GalleryThumbWidth(),
		Generated:  now(),
	})
}
