package usecase

import (
	"context"
	"math"
	"strings"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const (
	ItemsPath   = "navigation_items"
	ContentPath = "nav_items_content"

	overviewPages = 5
)

type navigationUseCase struct {
	items  *slice.Slice[[]model.NavigationItem]
	store  docstore.Store
	logger logger.ZapLogger
}

func NewNavigationUseCase(store docstore.Store, log logger.ZapLogger) navigation.UseCase {
	codec := slice.Collection(func(n *model.NavigationItem, id string) { n.ID = id }, log)
	decode := codec.Decode
	codec.Decode = func(snap docstore.Snapshot) ([]model.NavigationItem, error) {
		items, err := decode(snap)
		model.SortNavigation(items)
		return items, err
	}
	return &navigationUseCase{
		items:  slice.New(store, ItemsPath, codec, log),
		store:  store,
		logger: log,
	}
}

func (uc *navigationUseCase) Mount() error         { return uc.items.Mount() }
func (uc *navigationUseCase) Close()               { uc.items.Close() }
func (uc *navigationUseCase) Status() slice.Status { return uc.items.Status() }
func (uc *navigationUseCase) Err() error           { return uc.items.Err() }
func (uc *navigationUseCase) Resubscribe() error   { return uc.items.Resubscribe() }

func (uc *navigationUseCase) ListItems() []model.NavigationItem {
	return uc.items.Value()
}

func (uc *navigationUseCase) GetItem(id string) (*model.NavigationItem, error) {
	for _, item := range uc.items.Value() {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, apperr.NotFound("page not found")
}

func (uc *navigationUseCase) Templates() []model.NavigationTemplate {
	return append([]model.NavigationTemplate(nil), model.NavigationTemplates...)
}

// Draft returns a blank form for template < 0, otherwise the template's form.
// Either way the order is set to append after the current last page.
func (uc *navigationUseCase) Draft(template int) (*dto.SaveNavigationInput, error) {
	input := &dto.SaveNavigationInput{Order: uc.nextOrder(uc.items.Value())}
	if template < 0 {
		return input, nil
	}
	if template >= len(model.NavigationTemplates) {
		return nil, apperr.Validation("unknown page template")
	}
	t := model.NavigationTemplates[template]
	input.Label = t.Label
	input.Href = t.Href
	input.Description = t.Description
	return input, nil
}

// SaveItem validates the form against the mirror and writes the single item.
// The bool reports whether a new page was created.
func (uc *navigationUseCase) SaveItem(ctx context.Context, input *dto.SaveNavigationInput) (*model.NavigationItem, bool, error) {
	label := strings.TrimSpace(input.Label)
	href := strings.TrimSpace(input.Href)
	if label == "" || href == "" {
		return nil, false, apperr.Validation("Page name and URL are required")
	}
	href = NormalizeHref(href)

	if err := uc.items.WaitSynced(ctx); err != nil {
		return nil, false, apperr.AsConnection(err)
	}
	items := uc.items.Value()

	var existing *model.NavigationItem
	for i := range items {
		if items[i].ID == input.ID && input.ID != "" {
			existing = &items[i]
		}
	}
	if input.ID != "" && existing == nil {
		return nil, false, apperr.NotFound("page not found")
	}
	for _, item := range items {
		if item.Href == href && item.ID != input.ID {
			return nil, false, apperr.Validation("A page with this URL already exists")
		}
	}

	item := model.NavigationItem{
		Label:       label,
		Href:        href,
		Description: strings.TrimSpace(input.Description),
		Order:       input.Order,
	}
	created := existing == nil
	id := input.ID
	if created {
		key, err := uc.items.NewKey()
		if err != nil {
			return nil, false, err
		}
		id = key
		if item.Order <= 0 {
			item.Order = uc.nextOrder(items)
		}
	} else if item.Order <= 0 {
		item.Order = existing.Order
	}

	if err := uc.items.WriteChild(ctx, id, item); err != nil {
		return nil, false, err
	}
	uc.logger.Info("navigation item saved", zap.String("id", id), zap.String("href", href), zap.Bool("created", created))

	item.ID = id
	return &item, created, nil
}

// DeleteItem removes the page and the content stored for it.
func (uc *navigationUseCase) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("page id is required")
	}
	if err := uc.items.RemoveChild(ctx, id); err != nil {
		return err
	}
	if err := uc.store.Remove(ctx, docstore.Join(ContentPath, id)); err != nil {
		uc.logger.Error("failed to remove page content", zap.String("id", id), zap.Error(err))
		return apperr.Save("page deleted but its content could not be removed", err)
	}
	uc.logger.Info("navigation item deleted", zap.String("id", id))
	return nil
}

func (uc *navigationUseCase) Overview(input *dto.OverviewInput) *dto.Overview {
	if input == nil {
		input = &dto.OverviewInput{}
	}
	items := uc.items.Value()
	has := func(href string) bool {
		for _, item := range items {
			if item.Href == href {
				return true
			}
		}
		return false
	}

	checklist := []dto.ChecklistItem{
		{Title: "Create Home Page", Description: "Main landing page for your seller platform", Completed: has("/")},
		{Title: "Add Pricing Page", Description: "Show commission structure and plans", Completed: has("/pricing")},
		{Title: "Setup Registration", Description: "Enable seller sign-up page", Completed: has("/signup")},
		{Title: "Add Content Sections", Description: "Create hero, features, and testimonial sections", Completed: input.ContentSections > 0},
		{Title: "Configure Settings", Description: "Setup site metadata and configurations", Completed: input.SettingsSaved},
	}
	done := 0
	for _, c := range checklist {
		if c.Completed {
			done++
		}
	}

	out := &dto.Overview{
		TotalPages:      len(items),
		ContentSections: input.ContentSections,
		PageProgress:    percent(len(items), dto.RecommendedPages),
		Live:            has("/"),
		Checklist:       checklist,
		SetupProgress:   percent(done, len(checklist)),
		Pages:           items,
	}
	if len(items) > overviewPages {
		out.Pages = items[:overviewPages]
		out.MorePages = len(items) - overviewPages
	}
	return out
}

func (uc *navigationUseCase) nextOrder(items []model.NavigationItem) int {
	orders := make([]int, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.Order)
	}
	return model.NextOrder(orders...)
}

// NormalizeHref gives href a leading slash.
func NormalizeHref(href string) string {
	if !strings.HasPrefix(href, "/") {
		return "/" + href
	}
	return href
}

func percent(n, of int) int {
	if of == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(of) * 100))
}
