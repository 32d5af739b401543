package ledger

import "time"

const TokenTypeBearer = "BEARER"

// Token is one issued access token. Expired and Revoked are independent; either one disqualifies it.
type Token struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID    uint64    `gorm:"index;not null"                 json:"userId"`
	Token     string    `gorm:"uniqueIndex;not null"           json:"token"`
	TokenType string    `gorm:"not null;default:BEARER"        json:"tokenType"`
	Expired   bool      `gorm:"not null;default:false"         json:"expired"`
	Revoked   bool      `gorm:"not null;default:false"         json:"revoked"`
	ExpiresAt time.Time `gorm:"index;not null"                 json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Token) TableName() string { return "tokens" }

func (t *Token) Active() bool {
	return !t.Expired && !t.Revoked
}
