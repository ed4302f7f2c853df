package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/settings"
	"github.com/fekuna/omnipos-seller-cms/internal/settings/dto"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const StorageKey = "sellerPlatformSettings"

type settingsUseCase struct {
	repo   settings.Repository
	logger logger.ZapLogger

	mu      sync.RWMutex
	current model.Settings
	saved   bool
}

func NewSettingsUseCase(repo settings.Repository, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{
		repo:    repo,
		logger:  log,
		current: model.DefaultSettings(),
	}
}

// Mount loads the stored settings once. Stored keys overlay the defaults, so
// a file written by an older version still yields every field. A corrupt
// file is logged and the defaults stay in place.
func (uc *settingsUseCase) Mount(ctx context.Context) error {
	raw, err := uc.repo.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if raw == nil {
		return nil
	}

	loaded := model.DefaultSettings()
	if err := json.Unmarshal(raw, &loaded); err != nil {
		uc.logger.Warn("ignoring unreadable settings", zap.String("key", StorageKey), zap.Error(err))
		return nil
	}

	uc.mu.Lock()
	uc.current = loaded
	uc.saved = true
	uc.mu.Unlock()
	return nil
}

func (uc *settingsUseCase) Get() model.Settings {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.current
}

// Saved reports whether settings were ever stored on this device.
func (uc *settingsUseCase) Saved() bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.saved
}

func (uc *settingsUseCase) Save(ctx context.Context, s *model.Settings) (*model.Settings, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Put(ctx, StorageKey, raw); err != nil {
		uc.logger.Error("failed to store settings", zap.Error(err))
		return nil, apperr.Save("Failed to save settings. Please try again.", err)
	}

	uc.mu.Lock()
	uc.current = *s
	uc.saved = true
	uc.mu.Unlock()
	uc.logger.Info("settings saved", zap.String("platform", s.PlatformName))

	out := *s
	return &out, nil
}

func (uc *settingsUseCase) FeePreview(amount float64) *dto.FeePreview {
	s := uc.Get()
	commission := round2(amount * s.CommissionRate / 100)
	processing := round2(amount * s.ProcessingFee / 100)
	return &dto.FeePreview{
		SaleAmount:    amount,
		Commission:    commission,
		ProcessingFee: processing,
		SellerPayout:  round2(amount - commission - processing),
	}
}

func Validate(s *model.Settings) error {
	switch {
	case s.CommissionRate < 0 || s.CommissionRate > 50:
		return apperr.Validation("Commission rate must be between 0 and 50%")
	case s.ProcessingFee < 0 || s.ProcessingFee > 10:
		return apperr.Validation("Payment processing fee must be between 0 and 10%")
	case s.MonthlyFee < 0 || s.ListingFee < 0 || s.WithdrawalFee < 0:
		return apperr.Validation("Fees cannot be negative")
	case s.PasswordMinLength < 6 || s.PasswordMinLength > 20:
		return apperr.Validation("Minimum password length must be between 6 and 20")
	case s.SessionTimeout < 5 || s.SessionTimeout > 1440:
		return apperr.Validation("Session timeout must be between 5 and 1440 minutes")
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
