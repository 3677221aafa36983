// Package history keeps a best-effort log of rendered documents. Writes are
// fire-and-forget: a history failure never fails the primary operation.
package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/smallbiznis/invoicegen/internal/document/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DocumentRecord stores one rendered document summary.
type DocumentRecord struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID         string            `gorm:"index" json:"user_id"`
	DocumentType   string            `gorm:"type:text;not null" json:"document_type"`
	DocumentNumber string            `gorm:"type:text;not null" json:"document_number"`
	Currency       string            `gorm:"type:text;not null" json:"currency"`
	Total          float64           `gorm:"not null" json:"total"`
	Watermarked    bool              `gorm:"not null" json:"watermarked"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (DocumentRecord) TableName() string { return "document_records" }

// Summary describes a rendered document. Total is the derived grand total,
// not a caller-supplied figure.
type Summary struct {
	UserID         string
	DocumentType   documentdomain.DocumentType
	DocumentNumber string
	Currency       string
	Total          float64
	Watermarked    bool
	Metadata       map[string]any
}

const recordTimeout = 5 * time.Second

// Recorder inserts document summaries.
type Recorder struct {
	db    *gorm.DB
	genID *snowflake.Node
	log   *zap.Logger
}

func NewRecorder(db *gorm.DB, genID *snowflake.Node, log *zap.Logger) *Recorder {
	return &Recorder{db: db, genID: genID, log: log.Named("history")}
}

// Record inserts one summary synchronously.
func (r *Recorder) Record(ctx context.Context, summary Summary) error {
	if r == nil || r.db == nil || r.genID == nil {
		return errors.New("recorder_unavailable")
	}
	if strings.TrimSpace(summary.DocumentNumber) == "" {
		return errors.New("missing_document_number")
	}

	metadata := datatypes.JSONMap{}
	for key, value := range summary.Metadata {
		if strings.TrimSpace(key) == "" {
			continue
		}
		metadata[key] = value
	}

	record := DocumentRecord{
		ID:             r.genID.Generate(),
		UserID:         strings.TrimSpace(summary.UserID),
		DocumentType:   string(summary.DocumentType),
		DocumentNumber: summary.DocumentNumber,
		Currency:       summary.Currency,
		Total:          summary.Total,
		Watermarked:    summary.Watermarked,
		Metadata:       metadata,
		CreatedAt:      time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// RecordAsync inserts a summary in the background. Failures are logged and
// swallowed; the enclosing request has already been answered.
func (r *Recorder) RecordAsync(summary Summary) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.Record(ctx, summary); err != nil {
			r.log.Warn("history record failed",
				zap.String("document_number", summary.DocumentNumber),
				zap.Error(err),
			)
		}
	}()
}

// List returns the most recent records for a user, newest first.
func (r *Recorder) List(ctx context.Context, userID string, limit int) ([]DocumentRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var records []DocumentRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
