package domain

import "time"

// PointsAccount is a user's running points balance.
// PK: user_id. The balance always equals the sum of the account's events.
type PointsAccount struct {
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Balance   int       `json:"balance" dynamodbav:"balance"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// PointsEvent is one append-only ledger entry.
// PK: user_id, SK: event_id (ULID, so insertion order is chronological order).
type PointsEvent struct {
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	EventID       string    `json:"event_id" dynamodbav:"event_id"`
	Source        string    `json:"source" dynamodbav:"source"`
	Points        int       `json:"points" dynamodbav:"points"`
	Code          string    `json:"code,omitempty" dynamodbav:"code,omitempty"`
	WalletAddress string    `json:"wallet_address,omitempty" dynamodbav:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

// WalletLink associates an external wallet address with a user id.
// PK: wallet_address. First write wins; the mapping is immutable once set.
type WalletLink struct {
	WalletAddress string    `json:"wallet_address" dynamodbav:"wallet_address"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}
