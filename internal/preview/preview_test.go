package preview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_URL(t *testing.T) {
	r, err := NewRenderer("https://surf-seller-page.vercel.app/")
	require.NoError(t, err)

	assert.Equal(t, "https://surf-seller-page.vercel.app/", r.URL("/"))
	assert.Equal(t, "https://surf-seller-page.vercel.app/pricing", r.URL("pricing"))
	assert.Equal(t, "https://surf-seller-page.vercel.app/faq?tab=2#top", r.URL("/faq?tab=2#top"))

	_, err = NewRenderer("not a url")
	assert.Error(t, err)
}

func TestRenderer_Frame(t *testing.T) {
	r, err := NewRenderer("https://preview.test")
	require.NoError(t, err)

	f := r.Frame("/pricing", Mobile, 300, 0)
	assert.Equal(t, "https://preview.test/pricing", f.Src)
	assert.Equal(t, f.Src, f.OpenURL)
	assert.Equal(t, Size{Width: 375, Height: 812}, f.Size)
	assert.InDelta(t, 0.8, f.Scale, 1e-9)

	f = r.Frame("/pricing?x=1", Tablet, 2000, 3)
	assert.Equal(t, "https://preview.test/pricing?_preview=3&x=1", f.Src)
	assert.Equal(t, "https://preview.test/pricing?x=1", f.OpenURL)
	assert.Equal(t, 1.0, f.Scale)

	f = r.Frame("/", "watch", 720, 1)
	assert.Equal(t, Desktop, f.Device)
	assert.Equal(t, Size{Width: 1440, Height: 900}, f.Size)
	assert.Equal(t, 0.5, f.Scale)
}

func TestScale(t *testing.T) {
	assert.Equal(t, 1.0, Scale(0, 375))
	assert.Equal(t, 1.0, Scale(375, 375))
	assert.Equal(t, 0.5, Scale(720, 1440))
}

func TestClampSplit(t *testing.T) {
	assert.Equal(t, 20.0, ClampSplit(5))
	assert.Equal(t, 80.0, ClampSplit(95))
	assert.Equal(t, 42.5, ClampSplit(42.5))
	assert.Equal(t, DefaultSplit, ClampSplit(math.NaN()))
}

func TestPaneWidth(t *testing.T) {
	assert.Equal(t, 600, PaneWidth(1200, 50))
	assert.Equal(t, 240, PaneWidth(1200, 90))
	assert.Equal(t, 0, PaneWidth(0, 50))
}
