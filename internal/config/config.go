package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	DatabaseURL      string // あれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	RedisAddr string
	RedisDB   int

	JWTSecret      string
	AccessTokenTTL time.Duration

	SessionSecret string // 匿名セッションCookieの署名キー
	CookieSecure  bool

	RoleCacheTTL time.Duration
	SessionIdle  time.Duration // メモリ上のカート/ロール監視を破棄するまでの時間

	SignInPath   string // 未ログイン時のリダイレクト先
	FallbackPath string // 権限不足時のリダイレクト先

	SendgridAPIKey string // 空ならメール送信しない
	MailFrom       string
}

// LoadDBはDB接続に必要な項目だけ読む（migrate用）
func LoadDB() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	return Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
	}, nil
}

// Loadは環境変数
func Load() (Config, error) {
	cfg, err := LoadDB()
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiOr("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	ttlMin, err := atoiOr("ACCESS_TOKEN_TTL_MIN", 15)
	if err != nil {
		return Config{}, err
	}
	roleTTLSec, err := atoiOr("ROLE_CACHE_TTL_SEC", 300)
	if err != nil {
		return Config{}, err
	}
	idleMin, err := atoiOr("SESSION_IDLE_MIN", 30)
	if err != nil {
		return Config{}, err
	}

	cfg.Port = getenv("PORT", "8080")
	cfg.GoEnv = getenv("GO_ENV", "dev")
	cfg.LogLevel = getenv("LOG_LEVEL", "info")

	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.RedisDB = redisDB

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.AccessTokenTTL = time.Duration(ttlMin) * time.Minute

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	cfg.CookieSecure = envBool("COOKIE_SECURE", false)

	cfg.RoleCacheTTL = time.Duration(roleTTLSec) * time.Second
	cfg.SessionIdle = time.Duration(idleMin) * time.Minute

	cfg.SignInPath = getenv("SIGN_IN_PATH", "/auth")
	cfg.FallbackPath = getenv("FALLBACK_PATH", "/")

	cfg.SendgridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.MailFrom = getenv("MAIL_FROM", "orders@storefront.local")

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// DSNはgorm/goose共通の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func (c Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}
