package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Cart struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cart"`

	Cache struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"cache"`

	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers     []string `koanf:"brokers"`
		GroupID     string   `koanf:"group_id"`
		TopicStatus string   `koanf:"topic_status"`
	} `koanf:"kafka"`

	Outbox struct {
		Interval  time.Duration `koanf:"interval"`
		BatchSize int           `koanf:"batch_size"`
	} `koanf:"outbox"`

	Security struct {
		JWTSecret     string        `koanf:"jwt_secret"`
		Issuer        string        `koanf:"issuer"`
		Audience      string        `koanf:"audience"`
		TTL           time.Duration `koanf:"ttl"`
		AdminPassword string        `koanf:"admin_password"`
	} `koanf:"security"`

	Shop struct {
		Currency           string  `koanf:"currency"`
		ShippingFee        float64 `koanf:"shipping_fee"`
		FreeShippingRegion string  `koanf:"free_shipping_region"`
		DiscoveryMin       int     `koanf:"discovery_min"`
		DiscoverySetTitle  string  `koanf:"discovery_set_title"`
	} `koanf:"shop"`

	Analytics struct {
		Endpoint      string `koanf:"endpoint"`
		MeasurementID string `koanf:"measurement_id"`
		APISecret     string `koanf:"api_secret"`
	} `koanf:"analytics"`

	Email struct {
		Endpoint   string `koanf:"endpoint"`
		ServiceID  string `koanf:"service_id"`
		TemplateID string `koanf:"template_id"`
		UserID     string `koanf:"user_id"`
	} `koanf:"email"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix SHOPAPI_, nested with __)
	// e.g. SHOPAPI_MYSQL__DSN, SHOPAPI_SECURITY__ADMIN_PASSWORD
	if err := k.Load(env.Provider("SHOPAPI_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SHOPAPI_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Security.AdminPassword == "" {
		return fmt.Errorf("security.admin_password required")
	}
	if c.Shop.ShippingFee < 0 {
		return fmt.Errorf("shop.shipping_fee must be >= 0")
	}
	if c.Shop.DiscoveryMin <= 0 || c.Shop.DiscoveryMin > 6 {
		return fmt.Errorf("shop.discovery_min must be 1..6")
	}
	return nil
}
