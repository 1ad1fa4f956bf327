package domain

import "time"

// RedemptionCode is a shared promo code redeemable exactly once globally.
// PK: code (stored uppercased). Used transitions false→true at most once.
type RedemptionCode struct {
	Code       string `json:"code" dynamodbav:"code"`
	PointValue int    `json:"point_value" dynamodbav:"point_value"`
	Used       bool   `json:"used" dynamodbav:"used"`
	UsedBy     string `json:"used_by,omitempty" dynamodbav:"used_by,omitempty"`
	UsedAt     int64  `json:"used_at,omitempty" dynamodbav:"used_at,omitempty"`
}

// Transaction is the synthetic on-chain-looking descriptor returned when a
// redemption names a wallet address. Nothing is actually broadcast; the hash
// is random and exists only so the dashboard has something to render.
type Transaction struct {
	Hash          string    `json:"hash"`
	WalletAddress string    `json:"wallet_address"`
	Amount        int       `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}
