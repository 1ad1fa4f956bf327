package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// SnapshotBucket enables memstore persistence: state is restored from
	// SnapshotKey on boot and flushed back on shutdown. Ignored when Dynamo
	// is the active store.
	SnapshotBucket string
	SnapshotKey    string

	OTPTTL time.Duration

	// RedemptionCodes is the fixed code set, parsed from
	// "CODE:points,CODE:points". Code names are uppercased.
	RedemptionCodes map[string]int

	DefaultUserID string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	GoogleClientID string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	ContactInbox string

	SNSRegion      string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPs            string
	PointsAccounts  string
	PointsEvents    string
	RedemptionCodes string
	WalletLinks     string
}

const defaultRedemptionCodes = "CIVIC2023:50,EARLYBIRD:100,COMMUNITY25:25,TOWNHALL:75"

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			OTPs:            getEnv("DYNAMO_TABLE_OTPS", "otps"),
			PointsAccounts:  getEnv("DYNAMO_TABLE_POINTS_ACCOUNTS", "points_accounts"),
			PointsEvents:    getEnv("DYNAMO_TABLE_POINTS_EVENTS", "points_events"),
			RedemptionCodes: getEnv("DYNAMO_TABLE_REDEMPTION_CODES", "redemption_codes"),
			WalletLinks:     getEnv("DYNAMO_TABLE_WALLET_LINKS", "wallet_links"),
		},
		SnapshotBucket: getEnv("SNAPSHOT_BUCKET", ""),
		SnapshotKey:    getEnv("SNAPSHOT_KEY", "civictrust-state.json"),
		OTPTTL: getEnvDuration("OTP_TTL", 10*time.Minute),
		RedemptionCodes: parseCodes(getEnv("REDEMPTION_CODES", defaultRedemptionCodes)),
		DefaultUserID:   getEnv("DEFAULT_USER_ID", "demo-user"),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@civictrust.example"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		ContactInbox: getEnv("CONTACT_INBOX", "hello@civictrust.example"),
		SNSRegion: getEnv("SNS_REGION", "us-east-1"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// DynamoEnabled reports whether a real DynamoDB backend is configured.
// Without credentials or a local endpoint the service runs on the in-memory
// demo store instead.
func (c *Config) DynamoEnabled() bool {
	return c.AWSAccessKeyID != "" || c.AWSEndpointURL != ""
}

// SortedCodes returns the configured code names in stable order.
func (c *Config) SortedCodes() []string {
	out := make([]string, 0, len(c.RedemptionCodes))
	for code := range c.RedemptionCodes {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func parseCodes(raw string) map[string]int {
	codes := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		points, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || points <= 0 {
			continue
		}
		codes[strings.ToUpper(strings.TrimSpace(name))] = points
	}
	return codes
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
