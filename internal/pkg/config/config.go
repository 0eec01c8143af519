package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, scoring weights), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Store   StoreConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Scoring ScoringConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	LockTTL  time.Duration `envconfig:"REDIS_LOCK_TTL" default:"10s"`
}

// StoreConfig selects the storage and owner-lock backends.
// postgres+local is the default single-instance deployment; redis locking is needed
// once more than one API instance serves redemptions.
type StoreConfig struct {
	Backend     string `envconfig:"STORE_BACKEND" default:"postgres"`
	LockBackend string `envconfig:"LOCK_BACKEND" default:"local"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// JWTConfig must match the account service that mints tokens. Issuer is only checked
// when set.
type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration string        `envconfig:"JWT_DURATION" default:"24h"`
	Issuer   string        `envconfig:"JWT_ISSUER"`
	Leeway   time.Duration `envconfig:"JWT_LEEWAY" default:"30s"`
}

// ScoringConfig carries the per-kind weight tables and catch-up boost sizing.
// Values are calibration knobs, not invariants.
type ScoringConfig struct {
	ImageClick    float64 `envconfig:"SCORE_IMAGE_W_CLICK" default:"1.0"`
	ImageLike     float64 `envconfig:"SCORE_IMAGE_W_LIKE" default:"8.0"`
	ImageView     float64 `envconfig:"SCORE_IMAGE_W_VIEW" default:"0"`
	ImageComplete float64 `envconfig:"SCORE_IMAGE_W_COMPLETE" default:"0.25"`

	VideoClick    float64 `envconfig:"SCORE_VIDEO_W_CLICK" default:"1.0"`
	VideoLike     float64 `envconfig:"SCORE_VIDEO_W_LIKE" default:"8.0"`
	VideoView     float64 `envconfig:"SCORE_VIDEO_W_VIEW" default:"0.5"`
	VideoComplete float64 `envconfig:"SCORE_VIDEO_W_COMPLETE" default:"0.25"`

	MusicClick    float64 `envconfig:"SCORE_MUSIC_W_CLICK" default:"1.0"`
	MusicLike     float64 `envconfig:"SCORE_MUSIC_W_LIKE" default:"8.0"`
	MusicView     float64 `envconfig:"SCORE_MUSIC_W_VIEW" default:"0"`
	MusicComplete float64 `envconfig:"SCORE_MUSIC_W_COMPLETE" default:"0.25"`

	ImageBoostRatio float64 `envconfig:"BOOST_IMAGE_RATIO" default:"1.0"`
	ImageBoostFloor float64 `envconfig:"BOOST_IMAGE_FLOOR" default:"100"`
	VideoBoostRatio float64 `envconfig:"BOOST_VIDEO_RATIO" default:"0.9"`
	VideoBoostFloor float64 `envconfig:"BOOST_VIDEO_FLOOR" default:"100"`
	MusicBoostRatio float64 `envconfig:"BOOST_MUSIC_RATIO" default:"1.1"`
	MusicBoostFloor float64 `envconfig:"BOOST_MUSIC_FLOOR" default:"80"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ImageClick: 1.0, ImageLike: 8.0, ImageView: 0, ImageComplete: 0.25,
		VideoClick: 1.0, VideoLike: 8.0, VideoView: 0.5, VideoComplete: 0.25,
		MusicClick: 1.0, MusicLike: 8.0, MusicView: 0, MusicComplete: 0.25,

		ImageBoostRatio: 1.0, ImageBoostFloor: 100,
		VideoBoostRatio: 0.9, VideoBoostFloor: 100,
		MusicBoostRatio: 1.1, MusicBoostFloor: 80,
	}
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr:    "localhost:16379",
			LockTTL: 5 * time.Second,
		},
		Store: StoreConfig{
			Backend:     "memory",
			LockBackend: "local",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
			Issuer:   "accounts-test",
		},
		Scoring: DefaultScoringConfig(),
	}
}
