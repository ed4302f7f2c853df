package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-seller-cms/config"
	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/content"
	"github.com/fekuna/omnipos-seller-cms/internal/content/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, delay time.Duration) (content.UseCase, *docstore.Tree) {
	t.Helper()
	ids, err := docstore.NewIDGenerator(2)
	require.NoError(t, err)
	tree := docstore.NewTree(ids)
	t.Cleanup(tree.Close)

	ctx := context.Background()
	require.NoError(t, tree.Write(ctx, "navigation_items/home", map[string]any{"label": "Home", "href": "/", "order": 1}))

	uc := NewContentUseCase(tree, config.EditorConfig{AutoSaveDelay: delay, SaveTimeout: time.Second}, logger.NewNop())
	require.NoError(t, uc.Mount())
	t.Cleanup(uc.Close)
	require.Eventually(t, func() bool { return uc.Status() == slice.StatusSynced }, time.Second, 5*time.Millisecond)
	return uc, tree
}

func str(s string) *string { return &s }

func TestAddHeading_UsesTemplateAndAppends(t *testing.T) {
	uc, _ := setup(t, time.Hour)

	first, err := uc.AddHeading("home", model.HeadingPricing)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.ID, "heading-"))
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, "$29/month", first.Price)
	assert.Len(t, first.Features, 4)
	assert.True(t, first.IsVisible)

	second, err := uc.AddHeading("home", "")
	require.NoError(t, err)
	assert.Equal(t, model.HeadingText, second.Type)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, "New Section", second.Title)
}

func TestAddHeading_Rejects(t *testing.T) {
	uc, _ := setup(t, time.Hour)

	_, err := uc.AddHeading("home", "banner")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = uc.AddHeading("missing", model.HeadingText)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSaveNow_StripsEmptyOptionalFields(t *testing.T) {
	uc, tree := setup(t, time.Hour)
	ctx := context.Background()

	h, err := uc.AddHeading("home", model.HeadingHero)
	require.NoError(t, err)
	text := model.HeadingText
	_, err = uc.UpdateHeading("home", h.ID, &dto.HeadingPatch{Type: &text, ButtonLink: str(""), ButtonText: str(""), ImageURL: str("")})
	require.NoError(t, err)

	require.NoError(t, uc.SaveNow(ctx))

	snap, err := tree.Get(ctx, "nav_items_content/home/headings/0")
	require.NoError(t, err)
	doc, ok := snap.Value.(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, doc, "buttonLink")
	assert.NotContains(t, doc, "buttonText")
	assert.NotContains(t, doc, "imageUrl")
	assert.NotContains(t, doc, "price")
	assert.Equal(t, "text", doc["type"])
	assert.Equal(t, true, doc["isVisible"])
	assert.False(t, uc.State().Dirty)
	assert.NotNil(t, uc.State().LastSaved)
}

func TestMoveHeading_SwapsOrders(t *testing.T) {
	uc, _ := setup(t, time.Hour)
	a, _ := uc.AddHeading("home", model.HeadingText)
	b, _ := uc.AddHeading("home", model.HeadingFAQ)

	require.NoError(t, uc.MoveHeading("home", b.ID, dto.Up))
	page, err := uc.Page("home")
	require.NoError(t, err)
	require.Len(t, page.Headings, 2)
	assert.Equal(t, b.ID, page.Headings[0].ID)
	assert.Equal(t, a.ID, page.Headings[1].ID)

	require.NoError(t, uc.MoveHeading("home", b.ID, dto.Up))
	page, _ = uc.Page("home")
	assert.Equal(t, b.ID, page.Headings[0].ID)
}

func TestDeleteAndToggle(t *testing.T) {
	uc, _ := setup(t, time.Hour)
	a, _ := uc.AddHeading("home", model.HeadingText)

	toggled, err := uc.ToggleVisibility("home", a.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsVisible)

	require.NoError(t, uc.DeleteHeading("home", a.ID))
	assert.Equal(t, 0, uc.SectionCount())
	assert.True(t, apperr.Is(uc.DeleteHeading("home", a.ID), apperr.KindNotFound))
}

func TestAutoSave_WritesAfterQuietPeriod(t *testing.T) {
	uc, tree := setup(t, 20*time.Millisecond)
	ctx := context.Background()

	_, err := uc.AddHeading("home", model.HeadingText)
	require.NoError(t, err)
	assert.True(t, uc.State().AutoSavePending)

	require.Eventually(t, func() bool {
		snap, err := tree.Get(ctx, "nav_items_content/home")
		return err == nil && snap.Exists()
	}, time.Second, 5*time.Millisecond)
	assert.False(t, uc.State().AutoSavePending)
}

func TestSaveNow_CancelsPendingAutoSave(t *testing.T) {
	uc, _ := setup(t, time.Hour)

	_, err := uc.AddHeading("home", model.HeadingText)
	require.NoError(t, err)
	require.True(t, uc.State().AutoSavePending)

	require.NoError(t, uc.SaveNow(context.Background()))
	assert.False(t, uc.State().AutoSavePending)
}

// lateStore holds back snapshots of one path until release is closed.
type lateStore struct {
	*docstore.Tree
	path    string
	release chan struct{}
}

func (s *lateStore) Subscribe(path string, onData func(docstore.Snapshot), onError func(error)) (docstore.Unsubscribe, error) {
	if path == s.path {
		deliver := onData
		onData = func(snap docstore.Snapshot) {
			<-s.release
			deliver(snap)
		}
	}
	return s.Tree.Subscribe(path, onData, onError)
}

func TestSaveNow_BeforeContentLoadsKeepsStoredContent(t *testing.T) {
	ids, err := docstore.NewIDGenerator(2)
	require.NoError(t, err)
	tree := docstore.NewTree(ids)
	t.Cleanup(tree.Close)

	ctx := context.Background()
	require.NoError(t, tree.Write(ctx, "navigation_items/home", map[string]any{"label": "Home", "href": "/", "order": 1}))
	require.NoError(t, tree.Write(ctx, "nav_items_content/pricing", map[string]any{
		"headings": []any{map[string]any{"id": "heading-1", "type": "text", "title": "Plans", "order": 1, "isVisible": true}},
	}))

	store := &lateStore{Tree: tree, path: ContentPath, release: make(chan struct{})}
	uc := NewContentUseCase(store, config.EditorConfig{AutoSaveDelay: time.Hour, SaveTimeout: time.Second}, logger.NewNop()).(*contentUseCase)
	require.NoError(t, uc.Mount())
	t.Cleanup(uc.Close)
	defer close(store.release)
	require.Eventually(t, func() bool { return uc.nav.Status() == slice.StatusSynced }, time.Second, 5*time.Millisecond)
	require.Equal(t, slice.StatusLoading, uc.Status())

	_, err = uc.AddHeading("home", model.HeadingText)
	assert.True(t, apperr.Is(err, apperr.KindConnection))
	assert.ErrorIs(t, uc.SaveNow(ctx), slice.ErrNotSynced)

	snap, err := tree.Get(ctx, "nav_items_content/pricing/headings/0/title")
	require.NoError(t, err)
	assert.Equal(t, "Plans", snap.Value)
}
