package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/blog/pkg/ids"
	"gorm.io/gorm"
)

// GormLedger stores issued access tokens. It never deletes rows.
type GormLedger struct {
	DB  *gorm.DB
	IDs *ids.Node
}

func New(db *gorm.DB, node *ids.Node) *GormLedger {
	return &GormLedger{DB: db, IDs: node}
}

func (l *GormLedger) Migrate(ctx context.Context) error {
	return l.DB.WithContext(ctx).AutoMigrate(&Token{})
}

func (l *GormLedger) Append(ctx context.Context, userID uint64, token string, expiresAt time.Time) (uint64, error) {
	rec := Token{
		ID:        l.IDs.Next(),
		UserID:    userID,
		Token:     token,
		TokenType: TokenTypeBearer,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := l.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("append token: %w", err)
	}
	return rec.ID, nil
}

// RevokeAllForUser flags every still-active record of the user as expired and revoked in one statement.
// A record appended while the statement runs may survive it; the next revocation catches it.
func (l *GormLedger) RevokeAllForUser(ctx context.Context, userID uint64) (int64, error) {
	res := l.DB.WithContext(ctx).Model(&Token{}).
		Where("user_id = ? AND (expired = ? OR revoked = ?)", userID, false, false).
		Updates(map[string]any{"expired": true, "revoked": true})
	if res.Error != nil {
		return 0, fmt.Errorf("revoke tokens of user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (l *GormLedger) IsValid(ctx context.Context, token string) (bool, error) {
	var rec Token
	err := l.DB.WithContext(ctx).Where("token = ?", token).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup token: %w", err)
	}
	return rec.Active(), nil
}

// ExpireBefore marks records whose lifetime ended before cutoff. Revoked is left untouched.
func (l *GormLedger) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := l.DB.WithContext(ctx).Model(&Token{}).
		Where("expired = ? AND expires_at <= ?", false, cutoff.UTC()).
		Update("expired", true)
	if res.Error != nil {
		return 0, fmt.Errorf("expire tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (l *GormLedger) ListForUser(ctx context.Context, userID uint64) ([]Token, error) {
	var out []Token
	if err := l.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
