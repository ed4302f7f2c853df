package usecase

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-seller-cms/config"
	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/autosave"
	"github.com/fekuna/omnipos-seller-cms/internal/content"
	"github.com/fekuna/omnipos-seller-cms/internal/content/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	NavigationPath = "navigation_items"
	ContentPath    = "nav_items_content"
)

var errHeadingNotFound = apperr.NotFound("heading not found")

type contentUseCase struct {
	nav      *slice.Slice[[]model.NavigationItem]
	content  *slice.Slice[model.NavItemContent]
	autosave *autosave.Debouncer
	logger   logger.ZapLogger
}

func NewContentUseCase(store docstore.Store, editor config.EditorConfig, log logger.ZapLogger) content.UseCase {
	uc := &contentUseCase{
		nav: slice.New(store, NavigationPath,
			slice.Collection(func(n *model.NavigationItem, id string) { n.ID = id }, log), log),
		content: slice.New(store, ContentPath,
			slice.Document(func() model.NavItemContent { return model.NavItemContent{} }), log),
		logger: log,
	}
	uc.autosave = autosave.NewDebouncer(editor.AutoSaveDelay, editor.SaveTimeout, uc.autoSave, log.With(zap.String("editor", "content")))
	uc.content.OnChange(uc.autosave.Trigger)
	return uc
}

func (uc *contentUseCase) Mount() error {
	if err := uc.nav.Mount(); err != nil {
		return err
	}
	return uc.content.Mount()
}

// Close tears down both subscriptions and drops a pending auto-save.
func (uc *contentUseCase) Close() {
	uc.autosave.Cancel()
	uc.content.Close()
	uc.nav.Close()
}

func (uc *contentUseCase) Status() slice.Status {
	if s := uc.nav.Status(); s != slice.StatusSynced {
		return s
	}
	return uc.content.Status()
}

func (uc *contentUseCase) Err() error {
	if err := uc.nav.Err(); err != nil {
		return err
	}
	return uc.content.Err()
}

// Resubscribe retries both subscriptions even when the first one fails.
func (uc *contentUseCase) Resubscribe() error {
	navErr := uc.nav.Resubscribe()
	if err := uc.content.Resubscribe(); err != nil {
		return err
	}
	return navErr
}

func (uc *contentUseCase) State() *dto.EditorState {
	state := &dto.EditorState{
		Status:          uc.Status().String(),
		Dirty:           uc.content.Dirty(),
		Saving:          uc.content.Saving(),
		AutoSavePending: uc.autosave.Pending(),
	}
	if t := uc.content.LastSaved(); !t.IsZero() {
		state.LastSaved = &t
	}
	return state
}

func (uc *contentUseCase) Pages() []dto.Page {
	items := uc.nav.Value()
	model.SortNavigation(items)
	all := uc.content.Value()

	pages := make([]dto.Page, 0, len(items))
	for _, item := range items {
		headings := all[item.ID].Headings
		model.SortHeadings(headings)
		pages = append(pages, dto.Page{Item: item, Headings: headings})
	}
	return pages
}

func (uc *contentUseCase) Page(navID string) (*dto.Page, error) {
	for _, p := range uc.Pages() {
		if p.Item.ID == navID {
			return &p, nil
		}
	}
	return nil, apperr.NotFound("page not found")
}

func (uc *contentUseCase) SectionCount() int {
	n := 0
	for _, page := range uc.content.Value() {
		n += len(page.Headings)
	}
	return n
}

func (uc *contentUseCase) AddHeading(navID string, headingType model.HeadingType) (*model.ContentHeading, error) {
	if headingType == "" {
		headingType = model.HeadingText
	}
	if !headingType.Valid() {
		return nil, apperr.Validation("unknown heading type " + string(headingType))
	}
	if err := uc.requirePage(navID); err != nil {
		return nil, err
	}

	var added model.ContentHeading
	err := uc.content.Mutate(func(all *model.NavItemContent) error {
		if *all == nil {
			*all = model.NavItemContent{}
		}
		page := (*all)[navID]
		orders := make([]int, 0, len(page.Headings))
		for _, h := range page.Headings {
			orders = append(orders, h.Order)
		}

		added = model.HeadingTemplates[headingType]
		added.Features = append([]string(nil), added.Features...)
		added.ID = "heading-" + uuid.NewString()
		added.Type = headingType
		added.Order = model.NextOrder(orders...)
		added.IsVisible = true

		page.Headings = append(page.Headings, added)
		(*all)[navID] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (uc *contentUseCase) UpdateHeading(navID, headingID string, patch *dto.HeadingPatch) (*model.ContentHeading, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperr.Validation("unknown heading type " + string(*patch.Type))
	}
	var updated model.ContentHeading
	err := uc.editHeading(navID, headingID, func(h *model.ContentHeading) {
		applyPatch(h, patch)
		updated = *h
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *contentUseCase) ToggleVisibility(navID, headingID string) (*model.ContentHeading, error) {
	var updated model.ContentHeading
	err := uc.editHeading(navID, headingID, func(h *model.ContentHeading) {
		h.IsVisible = !h.IsVisible
		updated = *h
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *contentUseCase) DeleteHeading(navID, headingID string) error {
	return uc.content.Mutate(func(all *model.NavItemContent) error {
		page, ok := (*all)[navID]
		if !ok {
			return errHeadingNotFound
		}
		kept := page.Headings[:0]
		found := false
		for _, h := range page.Headings {
			if h.ID == headingID {
				found = true
				continue
			}
			kept = append(kept, h)
		}
		if !found {
			return errHeadingNotFound
		}
		page.Headings = kept
		(*all)[navID] = page
		return nil
	})
}

// MoveHeading swaps the order values of the heading and its neighbour in the
// given direction. Moving past either end is a no-op.
func (uc *contentUseCase) MoveHeading(navID, headingID string, direction dto.Direction) error {
	if direction != dto.Up && direction != dto.Down {
		return apperr.Validation("direction must be up or down")
	}
	return uc.content.Mutate(func(all *model.NavItemContent) error {
		page, ok := (*all)[navID]
		if !ok {
			return errHeadingNotFound
		}
		headings := page.Headings
		model.SortHeadings(headings)

		idx := -1
		for i, h := range headings {
			if h.ID == headingID {
				idx = i
			}
		}
		if idx < 0 {
			return errHeadingNotFound
		}
		other := idx - 1
		if direction == dto.Down {
			other = idx + 1
		}
		if other < 0 || other >= len(headings) {
			return nil
		}
		headings[idx].Order, headings[other].Order = headings[other].Order, headings[idx].Order
		if headings[idx].Order == headings[other].Order {
			headings[idx], headings[other] = headings[other], headings[idx]
		}
		page.Headings = headings
		(*all)[navID] = page
		return nil
	})
}

// SaveNow is the manual save: it supersedes a pending auto-save and always
// reports its result.
func (uc *contentUseCase) SaveNow(ctx context.Context) error {
	uc.autosave.Cancel()
	if err := uc.content.Save(ctx); err != nil {
		return err
	}
	uc.logger.Info("content saved", zap.Int("sections", uc.SectionCount()))
	return nil
}

func (uc *contentUseCase) autoSave(ctx context.Context) error {
	if !uc.content.Dirty() {
		return nil
	}
	err := uc.content.Save(ctx)
	if errors.Is(err, slice.ErrSaveInProgress) {
		uc.autosave.Trigger()
		return nil
	}
	return err
}

func (uc *contentUseCase) editHeading(navID, headingID string, fn func(*model.ContentHeading)) error {
	return uc.content.Mutate(func(all *model.NavItemContent) error {
		page, ok := (*all)[navID]
		if !ok {
			return errHeadingNotFound
		}
		for i := range page.Headings {
			if page.Headings[i].ID == headingID {
				fn(&page.Headings[i])
				(*all)[navID] = page
				return nil
			}
		}
		return errHeadingNotFound
	})
}

func (uc *contentUseCase) requirePage(navID string) error {
	for _, item := range uc.nav.Value() {
		if item.ID == navID {
			return nil
		}
	}
	return apperr.NotFound("page not found")
}

func applyPatch(h *model.ContentHeading, p *dto.HeadingPatch) {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Content != nil {
		h.Content = *p.Content
	}
	if p.Order != nil {
		h.Order = *p.Order
	}
	if p.IsVisible != nil {
		h.IsVisible = *p.IsVisible
	}
	if p.Type != nil {
		h.Type = *p.Type
	}
	if p.ImageURL != nil {
		h.ImageURL = *p.ImageURL
	}
	if p.ButtonText != nil {
		h.ButtonText = *p.ButtonText
	}
	if p.ButtonLink != nil {
		h.ButtonLink = *p.ButtonLink
	}
	if p.Price != nil {
		h.Price = *p.Price
	}
	if p.Features != nil {
		h.Features = append([]string(nil), (*p.Features)...)
	}
}
