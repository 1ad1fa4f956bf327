package domain

// OTPRecord stores a pending phone verification code.
// PK: phone_number. The code is kept as a bcrypt hash, never plaintext.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPRecord struct {
	PhoneNumber string `json:"phone_number" dynamodbav:"phone_number"`
	CodeHash    string `json:"code_hash" dynamodbav:"code_hash"`
	IssuedAt    int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt   int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
