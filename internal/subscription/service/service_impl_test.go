package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoicegen/internal/cache"
	subscriptiondomain "github.com/smallbiznis/invoicegen/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestResolveDefaultsToFreeActive(t *testing.T) {
	svc := setupService(t)

	entitlement, err := svc.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if entitlement.Tier != subscriptiondomain.TierFree {
		t.Fatalf("tier = %q, want free", entitlement.Tier)
	}
	if entitlement.Status != subscriptiondomain.StatusActive {
		t.Fatalf("status = %q, want active", entitlement.Status)
	}
	if entitlement.IsPremium() {
		t.Fatalf("default entitlement must not be premium")
	}
}

func TestActivateThenResolvePremium(t *testing.T) {
	svc := setupService(t)

	if err := svc.Activate(context.Background(), "user-2"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	entitlement, err := svc.Resolve(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !entitlement.IsPremium() {
		t.Fatalf("expected premium after activate, got %+v", entitlement)
	}
	if entitlement.CurrentPeriodEnd == nil {
		t.Fatalf("expected current_period_end to be set")
	}
}

func TestActivateIsIdempotent(t *testing.T) {
	svc := setupService(t)

	for i := 0; i < 2; i++ {
		if err := svc.Activate(context.Background(), "user-3"); err != nil {
			t.Fatalf("activate %d: %v", i, err)
		}
	}

	var count int64
	if err := svc.db.Model(&subscriptiondomain.Subscription{}).
		Where("user_id = ?", "user-3").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single subscription row, got %d", count)
	}
}

func TestCancelRevokesPremium(t *testing.T) {
	svc := setupService(t)

	if err := svc.Activate(context.Background(), "user-4"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := svc.Cancel(context.Background(), "user-4"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	entitlement, err := svc.Resolve(context.Background(), "user-4")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if entitlement.IsPremium() {
		t.Fatalf("expected canceled subscription to lose premium")
	}
	if entitlement.Status != subscriptiondomain.StatusCanceled {
		t.Fatalf("status = %q, want canceled", entitlement.Status)
	}
}

func TestCancelWithoutSubscriptionIsNoop(t *testing.T) {
	svc := setupService(t)

	if err := svc.Cancel(context.Background(), "ghost"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func TestResolveRejectsEmptyUser(t *testing.T) {
	svc := setupService(t)

	if _, err := svc.Resolve(context.Background(), "  "); err != subscriptiondomain.ErrInvalidUser {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}

func TestRequiresPremiumTable(t *testing.T) {
	if !subscriptiondomain.RequiresPremium(subscriptiondomain.OpDocumentsList) {
		t.Fatalf("documents.list must be premium gated")
	}
	if subscriptiondomain.RequiresPremium(subscriptiondomain.OpDocumentsRender) {
		t.Fatalf("documents.render must not be premium gated")
	}
	if subscriptiondomain.RequiresPremium("unknown.op") {
		t.Fatalf("unknown operations are unrestricted")
	}
}

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		db:       db,
		log:      zap.NewNop(),
		genID:    node,
		cache:    cache.NewTTLCache[string, subscriptiondomain.Entitlement](),
		cacheTTL: time.Second,
	}
}
