package http

import (
	"net/http"

	"github.com/civictrust-api/internal/application/auth"
	"github.com/civictrust-api/internal/application/civic"
	"github.com/civictrust-api/internal/application/otp"
	"github.com/civictrust-api/internal/application/points"
	"github.com/civictrust-api/internal/application/redemption"
	"github.com/civictrust-api/internal/config"
	"github.com/civictrust-api/internal/transport/http/handler"
	appmiddleware "github.com/civictrust-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Bearer tokens are optional everywhere; the middleware only rejects
	// requests that present an invalid one.
	if deps.JWTProvider != nil {
		r.Use(appmiddleware.Auth(deps.JWTProvider))
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpDeps := otp.ServiceDeps{
		OTPRepo:   deps.OTPRepo,
		SMSSender: deps.SMSSender,
		TTL:       cfg.OTPTTL,
	}
	if deps.JWTProvider != nil {
		otpDeps.JWTProvider = deps.JWTProvider
	}
	otpSvc := otp.NewService(otpDeps)

	pointsSvc := points.NewService(points.ServiceDeps{
		PointsRepo: deps.PointsRepo,
		WalletRepo: deps.WalletRepo,
	})
	redemptionSvc := redemption.NewService(redemption.ServiceDeps{
		CodeRepo: deps.CodeRepo,
		Ledger:   pointsSvc,
	})
	civicSvc := civic.NewService(nil)

	var authSigner auth.TokenSigner
	if deps.JWTProvider != nil {
		authSigner = deps.JWTProvider
	}
	authSvc := auth.NewService(deps.GoogleVerifier, authSigner)

	healthH := handler.NewHealthHandler(cfg.AppEnv)
	otpH := handler.NewOTPHandler(otpSvc)
	pointsH := handler.NewPointsHandler(pointsSvc, cfg.DefaultUserID)
	redemptionH := handler.NewRedemptionHandler(redemptionSvc, cfg.DefaultUserID)
	civicH := handler.NewCivicHandler(civicSvc)
	authH := handler.NewAuthHandler(authSvc)
	contactH := handler.NewContactHandler(deps.Mailer, cfg.ContactInbox)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/otp/send", otpH.Send)
		r.With(sensitiveRL.Limit).Post("/otp/verify", otpH.Verify)

		r.Get("/points", pointsH.Get)
		r.With(sensitiveRL.Limit).Post("/redeem-code", redemptionH.Redeem)
		r.Get("/redeem-code/available", redemptionH.Available)

		r.Get("/civic/stats", civicH.Stats)
		r.Get("/civic/issues", civicH.Issues)
		r.Get("/token/price-history", civicH.PriceHistory)

		r.With(sensitiveRL.Limit).Post("/auth/google", authH.GoogleLogin)
		r.With(sensitiveRL.Limit).Post("/contact", contactH.Submit)
	})

	return r
}
