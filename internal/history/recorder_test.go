package history

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/invoicegen/internal/document/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRecordAndList(t *testing.T) {
	recorder := setupRecorder(t)

	summaries := []Summary{
		{UserID: "user-1", DocumentType: documentdomain.DocumentTypeInvoice, DocumentNumber: "INV-1", Currency: "USD", Total: 200, Watermarked: true},
		{UserID: "user-1", DocumentType: documentdomain.DocumentTypeReceipt, DocumentNumber: "RCP-1", Currency: "USD", Total: 55, Watermarked: false},
		{UserID: "user-2", DocumentType: documentdomain.DocumentTypeQuotation, DocumentNumber: "Q-1", Currency: "EUR", Total: 10, Watermarked: true},
	}
	for _, summary := range summaries {
		if err := recorder.Record(context.Background(), summary); err != nil {
			t.Fatalf("record %s: %v", summary.DocumentNumber, err)
		}
	}

	records, err := recorder.List(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].DocumentNumber != "RCP-1" || records[1].DocumentNumber != "INV-1" {
		t.Fatalf("unexpected order: %s, %s", records[0].DocumentNumber, records[1].DocumentNumber)
	}
}

func TestRecordRejectsMissingNumber(t *testing.T) {
	recorder := setupRecorder(t)

	if err := recorder.Record(context.Background(), Summary{UserID: "user-1"}); err == nil {
		t.Fatalf("expected error for missing document number")
	}
}

func TestListEmptyUser(t *testing.T) {
	recorder := setupRecorder(t)

	records, err := recorder.List(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func setupRecorder(t *testing.T) *Recorder {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&DocumentRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewRecorder(db, node, zap.NewNop())
}
