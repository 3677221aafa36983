package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/cache"
	"github.com/smallbiznis/invoicegen/internal/config"
	subscriptiondomain "github.com/smallbiznis/invoicegen/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service resolves and mutates subscription entitlements. Resolve results are
// held in a short-lived cache; mutations invalidate the cached entry.
type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID    *snowflake.Node
	cache    cache.Cache[string, subscriptiondomain.Entitlement]
	cacheTTL time.Duration
}

type ServiceParam struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) subscriptiondomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("subscription.service"),

		genID:    p.GenID,
		cache:    cache.NewTTLCache[string, subscriptiondomain.Entitlement](),
		cacheTTL: p.Cfg.EntitlementCacheTTL,
	}
}

// Resolve returns the entitlement for userID. An identity with no stored
// subscription resolves to the free/active default.
func (s *Service) Resolve(ctx context.Context, userID string) (subscriptiondomain.Entitlement, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return subscriptiondomain.Entitlement{}, subscriptiondomain.ErrInvalidUser
	}

	if cached, ok := s.cache.Get(userID); ok {
		return cached, nil
	}

	var record subscriptiondomain.Subscription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entitlement := subscriptiondomain.DefaultEntitlement()
			s.cache.Set(userID, entitlement, s.cacheTTL)
			return entitlement, nil
		}
		s.log.Error("resolve subscription failed", zap.String("user_id", userID), zap.Error(err))
		return subscriptiondomain.Entitlement{}, subscriptiondomain.ErrSubscriptionUnavailable
	}

	entitlement := record.Entitlement()
	s.cache.Set(userID, entitlement, s.cacheTTL)
	return entitlement, nil
}

// Activate upserts a premium/active subscription for userID. Re-activating an
// already active subscription is tolerated.
func (s *Service) Activate(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return subscriptiondomain.ErrInvalidUser
	}

	now := time.Now().UTC()
	periodEnd := now.AddDate(0, 1, 0)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record subscriptiondomain.Subscription
		err := tx.Where("user_id = ?", userID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&subscriptiondomain.Subscription{
				ID:               s.genID.Generate(),
				UserID:           userID,
				Tier:             subscriptiondomain.TierPremium,
				Status:           subscriptiondomain.StatusActive,
				CurrentPeriodEnd: &periodEnd,
				CreatedAt:        now,
				UpdatedAt:        now,
			}).Error
		}
		if err != nil {
			return err
		}

		record.Tier = subscriptiondomain.TierPremium
		record.Status = subscriptiondomain.StatusActive
		record.CurrentPeriodEnd = &periodEnd
		record.UpdatedAt = now
		return tx.Save(&record).Error
	})
	if err != nil {
		s.log.Error("activate subscription failed", zap.String("user_id", userID), zap.Error(err))
		return subscriptiondomain.ErrSubscriptionUnavailable
	}

	s.cache.Delete(userID)
	return nil
}

// Cancel marks the subscription canceled. Canceling an absent subscription is
// a no-op.
func (s *Service) Cancel(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return subscriptiondomain.ErrInvalidUser
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record subscriptiondomain.Subscription
		err := tx.Where("user_id = ?", userID).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		record.Status = subscriptiondomain.StatusCanceled
		record.UpdatedAt = now
		return tx.Save(&record).Error
	})
	if err != nil {
		s.log.Error("cancel subscription failed", zap.String("user_id", userID), zap.Error(err))
		return subscriptiondomain.ErrSubscriptionUnavailable
	}

	s.cache.Delete(userID)
	return nil
}
