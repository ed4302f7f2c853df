package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/homepage"
	"github.com/fekuna/omnipos-seller-cms/internal/homepage/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const Path = "homepage_content"

var errSectionNotFound = apperr.NotFound("section not found")

type homepageUseCase struct {
	doc    *slice.Slice[model.HomepageContent]
	now    func() time.Time
	logger logger.ZapLogger
}

func NewHomepageUseCase(store docstore.Store, log logger.ZapLogger) homepage.UseCase {
	uc := &homepageUseCase{now: time.Now, logger: log}
	uc.doc = slice.New(store, Path, slice.Document(func() model.HomepageContent {
		return homepage.Defaults(uc.now())
	}), log)
	return uc
}

func (uc *homepageUseCase) Mount() error         { return uc.doc.Mount() }
func (uc *homepageUseCase) Close()               { uc.doc.Close() }
func (uc *homepageUseCase) Status() slice.Status { return uc.doc.Status() }
func (uc *homepageUseCase) Err() error           { return uc.doc.Err() }
func (uc *homepageUseCase) Resubscribe() error   { return uc.doc.Resubscribe() }

func (uc *homepageUseCase) State() *dto.EditorState {
	state := &dto.EditorState{
		Status: uc.doc.Status().String(),
		Dirty:  uc.doc.Dirty(),
		Saving: uc.doc.Saving(),
	}
	if t := uc.doc.LastSaved(); !t.IsZero() {
		state.LastSaved = &t
	}
	return state
}

func (uc *homepageUseCase) Content() model.HomepageContent {
	c := uc.doc.Value()
	model.SortSections(c.Sections)
	return c
}

func (uc *homepageUseCase) Section(id string) (*model.HomepageSection, error) {
	for _, s := range uc.doc.Value().Sections {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, errSectionNotFound
}

func (uc *homepageUseCase) UpdateSection(id string, patch *dto.SectionPatch) (*model.HomepageSection, error) {
	var updated model.HomepageSection
	err := uc.editSection(id, func(s *model.HomepageSection) error {
		if patch.Content != nil {
			content, err := mergeContent(s.Type, s.Content, patch.Content)
			if err != nil {
				return apperr.Validation("invalid content for section " + id)
			}
			s.Content = content
		}
		if patch.Title != nil {
			s.Title = *patch.Title
		}
		if patch.IsVisible != nil {
			s.IsVisible = *patch.IsVisible
		}
		if patch.Order != nil {
			s.Order = *patch.Order
		}
		updated = *s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (uc *homepageUseCase) ToggleVisibility(id string) (*model.HomepageSection, error) {
	var updated model.HomepageSection
	err := uc.editSection(id, func(s *model.HomepageSection) error {
		s.IsVisible = !s.IsVisible
		updated = *s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetSectionJSON applies a JSON textarea edit. Text that does not parse is
// ignored and the last valid value stays in place; the bool reports whether
// the edit was applied. Only an unknown section or field is an error.
func (uc *homepageUseCase) SetSectionJSON(id, field, text string) (bool, error) {
	section, err := uc.Section(id)
	if err != nil {
		return false, err
	}
	if !jsonFieldAllowed(section.Content, field) {
		return false, apperr.Validation("section " + id + " has no JSON field " + field)
	}
	if !json.Valid([]byte(text)) {
		uc.logger.Debug("ignoring malformed section JSON", zap.String("section", id), zap.String("field", field))
		return false, nil
	}

	applied := false
	err = uc.editSection(id, func(s *model.HomepageSection) error {
		applied = setJSONField(s.Content, field, json.RawMessage(text))
		if !applied {
			return errIgnored
		}
		return nil
	})
	if errors.Is(err, errIgnored) {
		return false, nil
	}
	return applied, err
}

// Save writes the whole homepage with a fresh lastUpdated stamp.
func (uc *homepageUseCase) Save(ctx context.Context) error {
	stamp := model.Timestamp(uc.now())
	if err := uc.doc.SaveWith(ctx, func(c *model.HomepageContent) { c.LastUpdated = stamp }); err != nil {
		return err
	}
	uc.logger.Info("homepage saved", zap.String("lastUpdated", stamp))
	return nil
}

func (uc *homepageUseCase) editSection(id string, fn func(*model.HomepageSection) error) error {
	return uc.doc.Mutate(func(c *model.HomepageContent) error {
		for i := range c.Sections {
			if c.Sections[i].ID == id {
				return fn(&c.Sections[i])
			}
		}
		return errSectionNotFound
	})
}

func mergeContent(t model.SectionType, current model.SectionContent, patch map[string]any) (model.SectionContent, error) {
	merged := map[string]any{}
	if current != nil {
		raw, err := json.Marshal(current)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &merged); err != nil || merged == nil {
			// Opaque content that is not an object is replaced wholesale.
			merged = map[string]any{}
		}
	}
	for k, v := range patch {
		merged[k] = v
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	return model.DecodeSectionContent(t, raw)
}
