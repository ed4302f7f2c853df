package homepage

import (
	_ "embed"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
)

//go:embed defaults.json
var defaultSections []byte

// Defaults is the homepage shown until one has been saved.
func Defaults(now time.Time) model.HomepageContent {
	var sections []model.HomepageSection
	if err := json.Unmarshal(defaultSections, &sections); err != nil {
		panic("homepage: invalid defaults.json: " + err.Error())
	}
	return model.HomepageContent{Sections: sections, LastUpdated: model.Timestamp(now)}
}
