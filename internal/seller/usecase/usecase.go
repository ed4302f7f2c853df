package usecase

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/seller"
	"github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const (
	Path = "sellers"

	indexTimeout = 30 * time.Second
)

type sellerUseCase struct {
	sellers *slice.Slice[[]model.Seller]
	index   seller.Index
	now     func() time.Time
	logger  logger.ZapLogger

	// latest snapshot waiting to be pushed to the index
	pending chan []model.Seller
	stop    chan struct{}
	start   sync.Once
}

// NewSellerUseCase builds the sellers manager. index may be nil, in which case
// search runs on the mirror only.
func NewSellerUseCase(store docstore.Store, index seller.Index, log logger.ZapLogger) seller.UseCase {
	codec := slice.Collection(func(s *model.Seller, id string) { s.ID = id }, log)
	decode := codec.Decode
	codec.Decode = func(snap docstore.Snapshot) ([]model.Seller, error) {
		sellers, err := decode(snap)
		SortNewestFirst(sellers)
		return sellers, err
	}
	uc := &sellerUseCase{
		sellers: slice.New(store, Path, codec, log),
		index:   index,
		now:     time.Now,
		logger:  log,
	}
	if index != nil {
		uc.pending = make(chan []model.Seller, 1)
		uc.stop = make(chan struct{})
		uc.sellers.OnSync(uc.queueSync)
	}
	return uc
}

func (uc *sellerUseCase) Mount() error {
	if uc.index != nil {
		uc.start.Do(func() { go uc.runIndexer() })
	}
	return uc.sellers.Mount()
}

func (uc *sellerUseCase) Close() {
	uc.sellers.Close()
	if uc.index != nil {
		select {
		case <-uc.stop:
		default:
			close(uc.stop)
		}
	}
}

func (uc *sellerUseCase) Status() slice.Status { return uc.sellers.Status() }
func (uc *sellerUseCase) Err() error           { return uc.sellers.Err() }
func (uc *sellerUseCase) Resubscribe() error   { return uc.sellers.Resubscribe() }

func (uc *sellerUseCase) ListSellers(ctx context.Context, filters *dto.SellerFilters) ([]model.Seller, error) {
	if filters == nil {
		filters = &dto.SellerFilters{}
	}
	if filters.Status != "" && filters.Status != "all" && !model.SellerStatus(filters.Status).Valid() {
		return nil, apperr.Validation("unknown seller status " + filters.Status)
	}

	all := uc.sellers.Value()
	query := strings.TrimSpace(filters.SearchQuery)

	match := func(s model.Seller) bool { return MatchesSearch(s, query) }
	if query != "" && uc.index != nil {
		ids, err := uc.index.Search(ctx, query)
		if err != nil {
			uc.logger.Warn("seller index search failed, searching the mirror", zap.String("query", query), zap.Error(err))
		} else {
			hits := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				hits[id] = struct{}{}
			}
			match = func(s model.Seller) bool {
				_, ok := hits[s.ID]
				return ok
			}
		}
	}

	out := make([]model.Seller, 0, len(all))
	for _, s := range all {
		if filters.Status != "" && filters.Status != "all" && string(s.Status) != filters.Status {
			continue
		}
		if !match(s) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (uc *sellerUseCase) GetSeller(id string) (*model.Seller, error) {
	for _, s := range uc.sellers.Value() {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, apperr.NotFound("seller not found")
}

func (uc *sellerUseCase) Stats() *dto.SellerStats {
	return ComputeStats(uc.sellers.Value())
}

// UpdateStatus writes the new status and then the updatedAt stamp as two
// targeted writes; the rest of the record is left alone.
func (uc *sellerUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Seller, error) {
	if !input.Status.Valid() {
		return nil, apperr.Validation("unknown seller status " + string(input.Status))
	}
	if err := uc.sellers.WaitSynced(ctx); err != nil {
		return nil, apperr.AsConnection(err)
	}
	s, err := uc.GetSeller(input.ID)
	if err != nil {
		return nil, err
	}

	if err := uc.sellers.WriteChild(ctx, docstore.Join(input.ID, "status"), string(input.Status)); err != nil {
		return nil, err
	}
	stamp := model.Timestamp(uc.now())
	if err := uc.sellers.WriteChild(ctx, docstore.Join(input.ID, "updatedAt"), stamp); err != nil {
		return nil, err
	}
	uc.logger.Info("seller status updated",
		zap.String("id", input.ID),
		zap.String("from", string(s.Status)),
		zap.String("to", string(input.Status)),
	)

	s.Status = input.Status
	s.UpdatedAt = stamp
	return s, nil
}

func (uc *sellerUseCase) DeleteSeller(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validation("seller id is required")
	}
	if err := uc.sellers.RemoveChild(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("seller deleted", zap.String("id", id))
	return nil
}

// Register stores a new pending seller from the public registration form.
func (uc *sellerUseCase) Register(ctx context.Context, input *dto.RegisterSellerInput) (*model.Seller, error) {
	s, err := NewSeller(input, uc.now())
	if err != nil {
		return nil, err
	}
	id, err := uc.sellers.NewKey()
	if err != nil {
		return nil, err
	}
	if err := uc.sellers.WriteChild(ctx, id, s); err != nil {
		return nil, err
	}
	uc.logger.Info("seller registered", zap.String("id", id), zap.String("email", s.Email))
	s.ID = id
	return s, nil
}

func (uc *sellerUseCase) queueSync(sellers []model.Seller) {
	select {
	case <-uc.pending:
	default:
	}
	select {
	case uc.pending <- sellers:
	default:
	}
}

func (uc *sellerUseCase) runIndexer() {
	for {
		select {
		case <-uc.stop:
			return
		case sellers := <-uc.pending:
			ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
			if err := uc.index.Sync(ctx, sellers); err != nil {
				uc.logger.Warn("failed to sync seller index", zap.Int("sellers", len(sellers)), zap.Error(err))
			}
			cancel()
		}
	}
}

// NewSeller validates a registration and builds the pending record.
func NewSeller(input *dto.RegisterSellerInput, now time.Time) (*model.Seller, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.TrimSpace(input.Email)
	if firstName == "" || lastName == "" || email == "" {
		return nil, apperr.Validation("First name, last name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("Please enter a valid email address")
	}

	vatType := input.VatType
	if vatType == "" {
		vatType = model.VatIndividual
	}
	if vatType != model.VatIndividual && vatType != model.VatBusiness {
		return nil, apperr.Validation("unknown VAT type " + vatType)
	}
	if vatType == model.VatBusiness && strings.TrimSpace(input.VatNumber) == "" {
		return nil, apperr.Validation("A VAT number is required for businesses")
	}

	shipping := input.ShippingMethod
	if shipping == "" {
		shipping = model.ShippingIntegrated
	}
	if _, ok := model.ShippingMethodLabels[shipping]; !ok {
		return nil, apperr.Validation("unknown shipping method " + shipping)
	}
	if input.PricingPlan != "" {
		if _, ok := model.PricingPlanLabels[input.PricingPlan]; !ok {
			return nil, apperr.Validation("unknown pricing plan " + input.PricingPlan)
		}
	}

	stamp := model.Timestamp(now)
	return &model.Seller{
		BusinessName:     strings.TrimSpace(input.BusinessName),
		VatType:          vatType,
		VatNumber:        strings.TrimSpace(input.VatNumber),
		HearAboutSurf:    input.HearAboutSurf,
		ReferredBy:       strings.TrimSpace(input.ReferredBy),
		FirstName:        firstName,
		LastName:         lastName,
		Email:            email,
		PhoneNumber:      strings.TrimSpace(input.PhoneNumber),
		Address:          strings.TrimSpace(input.Address),
		City:             strings.TrimSpace(input.City),
		Pincode:          strings.TrimSpace(input.Pincode),
		Country:          strings.TrimSpace(input.Country),
		ShippingMethod:   shipping,
		ShippingType:     input.ShippingType,
		DeliveryTime:     input.DeliveryTime,
		PricingPlan:      input.PricingPlan,
		ShowAdsOnWebsite: input.ShowAdsOnWebsite,
		Status:           model.SellerPending,
		CreatedAt:        stamp,
		UpdatedAt:        stamp,
	}, nil
}

// SortNewestFirst orders sellers by creation time, newest first.
func SortNewestFirst(sellers []model.Seller) {
	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].Created().After(sellers[j].Created())
	})
}

// MatchesSearch is a case-insensitive substring match over the searchable
// fields. An empty query matches everything.
func MatchesSearch(s model.Seller, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, field := range []string{s.FirstName, s.LastName, s.BusinessName, s.Email, s.ReferredBy} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func ComputeStats(sellers []model.Seller) *dto.SellerStats {
	stats := &dto.SellerStats{Total: len(sellers)}
	for _, s := range sellers {
		switch s.Status {
		case model.SellerActive:
			stats.Active++
		case model.SellerPending:
			stats.Pending++
		case model.SellerSuspended:
			stats.Suspended++
		}
		switch s.PricingPlan {
		case model.PlanStarter:
			stats.Starter++
		case model.PlanGrowth:
			stats.Growth++
		case model.PlanEnterprise:
			stats.Enterprise++
		}
		if s.ShowAdsOnWebsite {
			stats.WithAds++
		}
		if s.VatType == model.VatBusiness {
			stats.Businesses++
		}
		if s.HearAboutSurf == "referral" && s.ReferredBy != "" {
			stats.Referrals++
		}
		if s.HearAboutSurf == "black_friday_campaign" {
			stats.BlackFriday++
		}
	}
	return stats
}
