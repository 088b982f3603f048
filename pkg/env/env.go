package env

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/dnssteer/dnssteer/pkg/api"
)

const (
	defaultCheckInterval = 30 * time.Second
	defaultTTL           = 120
	defaultLocale        = "en"
)

// LoadBalancing holds the capacity thresholds for the admission filter.
type LoadBalancing struct {
	Enabled        bool
	MaxUsers       int
	RecoverUsers   int
	MinActiveNodes int
}

// Telegram holds the notification sink settings.
type Telegram struct {
	Enabled           bool
	Locale            string
	BotToken          string
	ChatID            int64
	TopicID           int
	NotifyDNSChanges  bool
	NotifyNodeChanges bool
	NotifyErrors      bool
	NotifyCritical    bool
}

// Interface collects the process configuration. Loaded once at startup and
// immutable for the process lifetime.
type Interface interface {
	CheckInterval() time.Duration
	ListenAddress() string
	LogLevel() string
	Zones() []api.Zone
	LoadBalancing() LoadBalancing
	StatusAPIURL() string
	StatusAPIToken() string
	CloudflareToken() string
	Telegram() Telegram
}

// secrets are only ever supplied through the environment, never the config
// file.
type secrets struct {
	StatusAPIURL     string `envconfig:"STATUS_API_URL" required:"true"`
	StatusAPIToken   string `envconfig:"STATUS_API_TOKEN" required:"true"`
	CloudflareToken  string `envconfig:"CLOUDFLARE_API_TOKEN" required:"true"`
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
	TelegramTopicID  int    `envconfig:"TELEGRAM_TOPIC_ID"`
}

type env struct {
	checkInterval time.Duration
	listenAddress string
	logLevel      string
	zones         []api.Zone
	lb            LoadBalancing
	telegram      Telegram
	secrets       secrets
}

type domainConfig struct {
	Domain string `mapstructure:"domain"`
	Zones  []struct {
		Name    string   `mapstructure:"name"`
		TTL     int      `mapstructure:"ttl"`
		Proxied bool     `mapstructure:"proxied"`
		IPs     []string `mapstructure:"ips"`
	} `mapstructure:"zones"`
}

// New reads the YAML config at configPath, overlays secrets from the
// environment and validates the result.
func New(log *logrus.Entry, configPath string) (Interface, error) {
	cfg := viper.New()
	cfg.SetConfigFile(configPath)

	cfg.SetDefault("check-interval", int(defaultCheckInterval/time.Second))
	cfg.SetDefault("listen-address", ":8080")
	cfg.SetDefault("logging.level", "info")
	cfg.SetDefault("telegram.locale", defaultLocale)
	cfg.SetDefault("telegram.notify.dns-changes", true)
	cfg.SetDefault("telegram.notify.node-changes", true)
	cfg.SetDefault("telegram.notify.errors", true)
	cfg.SetDefault("telegram.notify.critical", true)

	if err := cfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	var s secrets
	if err := envconfig.Process("", &s); err != nil {
		return nil, err
	}

	var domains []domainConfig
	if err := cfg.UnmarshalKey("domains", &domains); err != nil {
		return nil, fmt.Errorf("parse domains: %w", err)
	}

	var zones []api.Zone
	for _, d := range domains {
		for _, z := range d.Zones {
			ttl := z.TTL
			if ttl == 0 {
				ttl = defaultTTL
			}
			zones = append(zones, api.Zone{
				Domain:  d.Domain,
				Name:    z.Name,
				TTL:     ttl,
				Proxied: z.Proxied,
				IPs:     z.IPs,
			})
		}
	}

	e := &env{
		checkInterval: time.Duration(cfg.GetInt("check-interval")) * time.Second,
		listenAddress: cfg.GetString("listen-address"),
		logLevel:      cfg.GetString("logging.level"),
		zones:         zones,
		lb: LoadBalancing{
			Enabled:        cfg.GetBool("load-balancing.enabled"),
			MaxUsers:       cfg.GetInt("load-balancing.max-users"),
			RecoverUsers:   cfg.GetInt("load-balancing.recover-users"),
			MinActiveNodes: cfg.GetInt("load-balancing.min-active-nodes"),
		},
		telegram: Telegram{
			Enabled:           cfg.GetBool("telegram.enabled"),
			Locale:            cfg.GetString("telegram.locale"),
			BotToken:          s.TelegramBotToken,
			ChatID:            s.TelegramChatID,
			TopicID:           s.TelegramTopicID,
			NotifyDNSChanges:  cfg.GetBool("telegram.notify.dns-changes"),
			NotifyNodeChanges: cfg.GetBool("telegram.notify.node-changes"),
			NotifyErrors:      cfg.GetBool("telegram.notify.errors"),
			NotifyCritical:    cfg.GetBool("telegram.notify.critical"),
		},
		secrets: s,
	}

	if err := e.validate(); err != nil {
		return nil, err
	}

	log.Printf("loaded %d zones from %s", len(e.zones), configPath)

	return e, nil
}

func (e *env) validate() error {
	if e.checkInterval <= 0 {
		return fmt.Errorf("check-interval must be positive")
	}

	if len(e.zones) == 0 {
		return fmt.Errorf("no zones configured")
	}

	for _, z := range e.zones {
		if z.Domain == "" || z.Name == "" {
			return fmt.Errorf("zone %q: domain and name are required", z.FullDomain())
		}
		if len(z.IPs) == 0 {
			return fmt.Errorf("zone %s: at least one ip is required", z.FullDomain())
		}
	}

	if e.lb.Enabled {
		if e.lb.MaxUsers <= 0 {
			return fmt.Errorf("load-balancing.max-users must be positive")
		}
		// recover >= max collapses the hysteresis band, which makes nodes
		// flap between throttled and eligible every cycle
		if e.lb.RecoverUsers >= e.lb.MaxUsers {
			return fmt.Errorf("load-balancing.recover-users (%d) must be less than max-users (%d)", e.lb.RecoverUsers, e.lb.MaxUsers)
		}
		if e.lb.MinActiveNodes < 0 {
			return fmt.Errorf("load-balancing.min-active-nodes must not be negative")
		}
	}

	if e.telegram.Enabled && (e.telegram.BotToken == "" || e.telegram.ChatID == 0) {
		return fmt.Errorf("telegram enabled but TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID unset")
	}

	return nil
}

func (e *env) CheckInterval() time.Duration { return e.checkInterval }
func (e *env) ListenAddress() string        { return e.listenAddress }
func (e *env) LogLevel() string             { return e.logLevel }
func (e *env) Zones() []api.Zone            { return e.zones }
func (e *env) LoadBalancing() LoadBalancing { return e.lb }
func (e *env) StatusAPIURL() string         { return e.secrets.StatusAPIURL }
func (e *env) StatusAPIToken() string       { return e.secrets.StatusAPIToken }
func (e *env) CloudflareToken() string      { return e.secrets.CloudflareToken }
func (e *env) Telegram() Telegram           { return e.telegram }
