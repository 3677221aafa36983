// Package identity resolves the caller for a request from a bearer session
// token. Session issuance itself lives outside this service.
package identity

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Identity is the resolved caller.
type Identity struct {
	UserID string
}

// Provider resolves a session token to an identity. The boolean is false when
// no identity is present; that is a normal outcome, not an error.
type Provider interface {
	Resolve(ctx context.Context, token string) (Identity, bool, error)
}

// Session is a stored login session keyed by token hash.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    string       `gorm:"not null;index" json:"user_id"`
	TokenHash string       `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt *time.Time   `gorm:"" json:"expires_at"`
	CreatedAt time.Time    `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// HashToken hashes a session token for storage and lookup.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

// SessionProvider looks sessions up in the database.
type SessionProvider struct {
	db *gorm.DB
}

func NewSessionProvider(db *gorm.DB) Provider {
	return &SessionProvider{db: db}
}

func (p *SessionProvider) Resolve(ctx context.Context, token string) (Identity, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, false, nil
	}

	hash := HashToken(token)
	now := time.Now().UTC()

	var record struct {
		UserID    string `gorm:"column:user_id"`
		TokenHash string `gorm:"column:token_hash"`
	}
	err := p.db.WithContext(ctx).Raw(
		`SELECT user_id, token_hash
		 FROM sessions
		 WHERE token_hash = ?
		   AND (expires_at IS NULL OR expires_at > ?)
		 LIMIT 1`,
		hash,
		now,
	).Scan(&record).Error
	if err != nil {
		return Identity{}, false, err
	}

	if record.UserID == "" || subtle.ConstantTimeCompare([]byte(record.TokenHash), []byte(hash)) != 1 {
		return Identity{}, false, nil
	}
	return Identity{UserID: record.UserID}, true, nil
}
