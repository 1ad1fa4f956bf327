package http

import (
	"github.com/civictrust-api/internal/application/auth"
	"github.com/civictrust-api/internal/application/otp"
	"github.com/civictrust-api/internal/application/points"
	"github.com/civictrust-api/internal/application/redemption"
	jwtinfra "github.com/civictrust-api/internal/infrastructure/jwt"
	"github.com/civictrust-api/internal/infrastructure/smtp"
	"github.com/civictrust-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router. The stores are
// interface-typed so either the DynamoDB repos or the in-memory store can
// back them. SMSSender, Mailer, JWTProvider and GoogleVerifier may be nil;
// the router degrades the matching features instead of failing.
type Deps struct {
	OTPRepo    otp.Store
	PointsRepo points.Store
	WalletRepo points.WalletStore
	CodeRepo   redemption.CodeStore

	SMSSender      sns.SMSSender
	Mailer         smtp.Mailer
	JWTProvider    *jwtinfra.Provider
	GoogleVerifier auth.GoogleVerifier
}
