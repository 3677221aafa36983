// Package domain holds the subscription entitlement model.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusExpired  Status = "expired"
	StatusTrialing Status = "trialing"
)

// Entitlement is the resolved tier/status pair for an identity.
type Entitlement struct {
	Tier             Tier       `json:"tier"`
	Status           Status     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}

// IsPremium reports whether premium features are unlocked.
func (e Entitlement) IsPremium() bool {
	return e.Tier == TierPremium && e.Status == StatusActive
}

// DefaultEntitlement is what an identity with no stored subscription resolves
// to. Absence is normal, not an error.
func DefaultEntitlement() Entitlement {
	return Entitlement{Tier: TierFree, Status: StatusActive}
}

// Subscription is the stored record backing an entitlement.
type Subscription struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID           string       `gorm:"uniqueIndex;not null" json:"user_id"`
	Tier             Tier         `gorm:"type:text;not null" json:"tier"`
	Status           Status       `gorm:"type:text;not null" json:"status"`
	CurrentPeriodEnd *time.Time   `gorm:"" json:"current_period_end"`
	CreatedAt        time.Time    `gorm:"not null" json:"-"`
	UpdatedAt        time.Time    `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// Entitlement normalizes the stored record into the resolved pair.
func (s Subscription) Entitlement() Entitlement {
	tier := s.Tier
	if tier != TierPremium {
		tier = TierFree
	}
	status := s.Status
	switch status {
	case StatusActive, StatusCanceled, StatusExpired, StatusTrialing:
	default:
		status = StatusActive
	}
	return Entitlement{
		Tier:             tier,
		Status:           status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}

type Service interface {
	Resolve(ctx context.Context, userID string) (Entitlement, error)
	Activate(ctx context.Context, userID string) error
	Cancel(ctx context.Context, userID string) error
}
