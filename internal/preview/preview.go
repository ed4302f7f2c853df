// Package preview computes how the public page behind a navigation item is
// framed in the editor. It never reads or writes the store.
package preview

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

type Device string

const (
	Mobile  Device = "mobile"
	Tablet  Device = "tablet"
	Desktop Device = "desktop"
)

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var Presets = map[Device]Size{
	Mobile:  {Width: 375, Height: 812},
	Tablet:  {Width: 768, Height: 1024},
	Desktop: {Width: 1440, Height: 900},
}

const (
	MinSplit     = 20.0
	MaxSplit     = 80.0
	DefaultSplit = 50.0

	reloadParam = "_preview"
)

// Frame is everything needed to render the embedded preview.
type Frame struct {
	Src     string  `json:"src"`
	OpenURL string  `json:"openUrl"`
	Device  Device  `json:"device"`
	Size    Size    `json:"size"`
	Scale   float64 `json:"scale"`
}

type Renderer struct {
	origin *url.URL
}

func NewRenderer(origin string) (*Renderer, error) {
	u, err := url.Parse(strings.TrimRight(origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse preview origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("preview origin %q must be an absolute URL", origin)
	}
	return &Renderer{origin: u}, nil
}

// URL resolves href against the preview origin.
func (r *Renderer) URL(href string) string {
	return r.resolve(href).String()
}

func (r *Renderer) resolve(href string) *url.URL {
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		ref = &url.URL{Path: href}
	}
	u := *r.origin
	u.Path = strings.TrimRight(r.origin.Path, "/") + ref.Path
	u.RawQuery = ref.RawQuery
	u.Fragment = ref.Fragment
	return &u
}

// Frame builds the frame for href on device inside a pane paneWidth pixels
// wide. A reload count above zero is added to the frame source so the
// browser fetches the page again. Unknown devices fall back to desktop.
func (r *Renderer) Frame(href string, device Device, paneWidth int, reload int) *Frame {
	size, ok := Presets[device]
	if !ok {
		device = Desktop
		size = Presets[Desktop]
	}

	open := r.resolve(href)
	src := *open
	if reload > 0 {
		q := src.Query()
		q.Set(reloadParam, strconv.Itoa(reload))
		src.RawQuery = q.Encode()
	}

	return &Frame{
		Src:     src.String(),
		OpenURL: open.String(),
		Device:  device,
		Size:    size,
		Scale:   Scale(paneWidth, size.Width),
	}
}

// Scale is min(1, pane/device); an unknown pane width means no scaling.
func Scale(paneWidth, deviceWidth int) float64 {
	if paneWidth <= 0 || deviceWidth <= 0 {
		return 1
	}
	return math.Min(1, float64(paneWidth)/float64(deviceWidth))
}

// ClampSplit keeps the editor/preview split between 20 and 80 percent.
func ClampSplit(pct float64) float64 {
	if math.IsNaN(pct) {
		return DefaultSplit
	}
	return math.Max(MinSplit, math.Min(MaxSplit, pct))
}

// PaneWidth is the preview pane's share of a container split at pct percent
// for the editor.
func PaneWidth(containerWidth int, pct float64) int {
	if containerWidth <= 0 {
		return 0
	}
	return int(math.Round(float64(containerWidth) * (100 - ClampSplit(pct)) / 100))
}
