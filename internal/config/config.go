package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Reward   *RewardConfig   `mapstructure:"reward"`
	Notify   *NotifyConfig   `mapstructure:"notify"`
}

type APIConfig struct {
	BaseURL            string   `mapstructure:"base_url"`
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

// RewardConfig drives the basepoint reward scheduler.
type RewardConfig struct {
	PerPoint           int           `mapstructure:"per_point"`
	CycleInterval      time.Duration `mapstructure:"cycle_interval"`
	SupervisorInterval time.Duration `mapstructure:"supervisor_interval"`
	InitialDelay       time.Duration `mapstructure:"initial_delay"`
	Channel            string        `mapstructure:"channel"`
}

type NotifyConfig struct {
	WebhookURL     string        `mapstructure:"webhook_url"`
	CaptureChannel string        `mapstructure:"capture_channel"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "basepoint.sqlite")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("reward.per_point", 2)
	v.SetDefault("reward.cycle_interval", 30*time.Minute)
	v.SetDefault("reward.supervisor_interval", 5*time.Minute)
	v.SetDefault("reward.initial_delay", 5*time.Second)
	v.SetDefault("reward.channel", "rewards")
	v.SetDefault("notify.capture_channel", "captures")
	v.SetDefault("notify.timeout", 10*time.Second)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config -> %w", err)
	}

	return conf, nil
}

// Watch reloads the file on change and hands the new config to onChange.
// Invalid edits are reported through onError and otherwise ignored.
func Watch(path string, onChange func(*AppConfig), onError func(error)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		onError(fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		conf, err := decode(v)
		if err != nil {
			onError(err)
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.API, validation.Required),
		validation.Field(&c.Gin, validation.Required),
		validation.Field(&c.Database, validation.Required),
		validation.Field(&c.Reward, validation.Required),
	)
}

func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.JWTSigningKey, validation.Required, validation.Length(16, 0)),
	)
}

func (c *GinConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.Mode, validation.In("debug", "release", "test")),
	)
}

func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
	)
}

func (c *RewardConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.PerPoint, validation.Required, validation.Min(1)),
		validation.Field(&c.CycleInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SupervisorInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.InitialDelay, validation.Min(time.Duration(0))),
	)
}
