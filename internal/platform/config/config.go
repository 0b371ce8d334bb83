package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 3000
	defaultShutdownTimeout = 10 * time.Second
	defaultMailHost        = "smtp.gmail.com"
	defaultMailPort        = 587
	defaultProfileDir      = "media/profiles"
	defaultProfilePath     = "/api/profiles"
	defaultLogLevel        = "info"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Mail     MailConfig     `yaml:"mail"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig は HTTP / gRPC サーバーに関する設定です。
type ServerConfig struct {
	Port               int           `yaml:"port"`
	GRPCListenAddr     string        `yaml:"grpc_listen_addr"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout"`
}

// ListenAddr は HTTP サーバーの待ち受けアドレスを返します。
func (s ServerConfig) ListenAddr() string {
	return ":" + strconv.Itoa(s.Port)
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。URL が設定されていれば個別項目より優先します。
type DatabaseConfig struct {
	URL                string        `yaml:"url"`
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// MailConfig は SMTP 送信に関する設定です。
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// StorageConfig はプロフィール写真の保存先です。
type StorageConfig struct {
	ProfileDir  string `yaml:"profile_dir"`
	ProfilePath string `yaml:"profile_path"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

// Load は指定されたパスから設定ファイルを読み込み、環境変数で上書きします。
// path が空の場合は環境変数と既定値のみを使います。
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	var cfg Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("DATABASE_URL", &c.Database.URL)
	setString("GRPC_LISTEN_ADDR", &c.Server.GRPCListenAddr)
	setString("MAIL_HOST", &c.Mail.Host)
	setString("MAIL_USER", &c.Mail.User)
	setString("MAIL_PASSWORD", &c.Mail.Password)
	setString("MAIL_FROM", &c.Mail.From)
	setString("PROFILE_DIR", &c.Storage.ProfileDir)
	setString("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup("LOG_DEV"); ok && v != "" {
		c.Log.Dev = v == "1" || v == "true"
	}

	if err := setInt("PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := setInt("MAIL_PORT", &c.Mail.Port); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	if c.Server.GRPCListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.Server.GRPCListenAddr); err != nil {
			return fmt.Errorf("config: server.grpc_listen_addr: %w", err)
		}
	}

	timeout, err := parseDurationAllowEmpty(c.Server.ShutdownTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: server.shutdown_timeout: %w", err)
	}
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}
	c.Server.ShutdownTimeout = timeout

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}

	if c.Mail.Host == "" {
		c.Mail.Host = defaultMailHost
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = defaultMailPort
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.User
	}

	if c.Storage.ProfileDir == "" {
		c.Storage.ProfileDir = defaultProfileDir
	}
	if c.Storage.ProfilePath == "" {
		c.Storage.ProfilePath = defaultProfilePath
	}

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.URL == "" {
		if d.Host == "" {
			return fmt.Errorf("config: database.url (DATABASE_URL) or database.host must be set")
		}
		if d.Port == 0 {
			return fmt.Errorf("config: database.port must be set")
		}
		if d.User == "" {
			return fmt.Errorf("config: database.user must be set")
		}
		if d.Password == "" {
			return fmt.Errorf("config: database.password must be set")
		}
		if d.Name == "" {
			return fmt.Errorf("config: database.name must be set")
		}
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
