package config

import (
	"time"

	"github.com/spf13/viper"
)

type AppConf struct {
	Env            string `mapstructure:"env"`
	Port           int    `mapstructure:"port"`
	ShutdownSecond int    `mapstructure:"shutdown_seconds"`
}

type MongoConf struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type AWSConf struct {
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Endpoint string `mapstructure:"endpoint"`
}

type S3Conf struct {
	PresignTTL int `mapstructure:"presign_ttl_seconds"`
}

type RedisConf struct {
	Addr         string `mapstructure:"addr"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	Prefix       string `mapstructure:"prefix"`
	PresenceTTL  int    `mapstructure:"presence_ttl_seconds"`
	SignedURLTTL int    `mapstructure:"signed_url_cache_ttl_seconds"`
}

type KafkaConf struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type PostgresConf struct {
	DSN string `mapstructure:"dsn"`
}

type AdminConf struct {
	Password     string `mapstructure:"password"`
	JWTSecret    string `mapstructure:"jwt_secret"`
	TokenTTLHour int    `mapstructure:"token_ttl_hours"`
}

type SpotifyConf struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	PlaylistID   string `mapstructure:"playlist_id"`
}

type GeoConf struct {
	PlacesURL    string `mapstructure:"places_url"`
	PlacesKey    string `mapstructure:"places_key"`
	GeocodeURL   string `mapstructure:"geocode_url"`
	RadiusMeters int    `mapstructure:"radius_meters"`
}

type SyncConf struct {
	StorySweepSeconds    int `mapstructure:"story_sweep_seconds"`
	ProfilePollSeconds   int `mapstructure:"profile_poll_seconds"`
	OwnershipSweepSecond int `mapstructure:"ownership_sweep_seconds"`
	NotificationCap      int `mapstructure:"notification_cap"`
}

type LimitsConf struct {
	MaxUploadMB    int `mapstructure:"max_upload_mb"`
	RequestsPerMin int `mapstructure:"requests_per_minute"`
}

type Config struct {
	App      AppConf      `mapstructure:"app"`
	Mongo    MongoConf    `mapstructure:"mongodb"`
	AWS      AWSConf      `mapstructure:"aws"`
	S3       S3Conf       `mapstructure:"s3"`
	Redis    RedisConf    `mapstructure:"redis"`
	Kafka    KafkaConf    `mapstructure:"kafka"`
	Postgres PostgresConf `mapstructure:"postgres"`
	Admin    AdminConf    `mapstructure:"admin"`
	Spotify  SpotifyConf  `mapstructure:"spotify"`
	Geo      GeoConf      `mapstructure:"geo"`
	Sync     SyncConf     `mapstructure:"sync"`
	Limits   LimitsConf   `mapstructure:"limits"`

	// derived
	ShutdownTimeout time.Duration
	PresignTTL      time.Duration
	StorySweep      time.Duration
	ProfilePoll     time.Duration
	OwnershipSweep  time.Duration
	AdminTokenTTL   time.Duration
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 8080
	}
	if cfg.App.ShutdownSecond == 0 {
		cfg.App.ShutdownSecond = 15
	}
	if cfg.S3.PresignTTL == 0 {
		cfg.S3.PresignTTL = 600
	}
	if cfg.Redis.PresenceTTL == 0 {
		cfg.Redis.PresenceTTL = 120
	}
	if cfg.Redis.SignedURLTTL == 0 {
		cfg.Redis.SignedURLTTL = cfg.S3.PresignTTL
	}
	if cfg.Sync.StorySweepSeconds == 0 {
		cfg.Sync.StorySweepSeconds = 60
	}
	if cfg.Sync.ProfilePollSeconds == 0 {
		cfg.Sync.ProfilePollSeconds = 30
	}
	if cfg.Sync.OwnershipSweepSecond == 0 {
		cfg.Sync.OwnershipSweepSecond = 600
	}
	if cfg.Sync.NotificationCap == 0 {
		cfg.Sync.NotificationCap = 50
	}
	if cfg.Limits.MaxUploadMB == 0 {
		cfg.Limits.MaxUploadMB = 100
	}
	if cfg.Limits.RequestsPerMin == 0 {
		cfg.Limits.RequestsPerMin = 300
	}
	if cfg.Admin.TokenTTLHour == 0 {
		cfg.Admin.TokenTTLHour = 24
	}
	if cfg.Geo.RadiusMeters == 0 {
		cfg.Geo.RadiusMeters = 10000
	}

	cfg.ShutdownTimeout = time.Duration(cfg.App.ShutdownSecond) * time.Second
	cfg.PresignTTL = time.Duration(cfg.S3.PresignTTL) * time.Second
	cfg.StorySweep = time.Duration(cfg.Sync.StorySweepSeconds) * time.Second
	cfg.ProfilePoll = time.Duration(cfg.Sync.ProfilePollSeconds) * time.Second
	cfg.OwnershipSweep = time.Duration(cfg.Sync.OwnershipSweepSecond) * time.Second
	cfg.AdminTokenTTL = time.Duration(cfg.Admin.TokenTTLHour) * time.Hour
}
