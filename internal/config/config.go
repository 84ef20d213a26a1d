package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LeadRateLimit  int      `yaml:"lead_rate_limit"` // criações de lead por minuto por IP
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// DSN usa a URL completa quando existe; senão monta a partir das partes.
func (c RabbitMQConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/",
	}
	return u.String()
}

type MailConfig struct {
	Host     string `yaml:"smtp_host"`
	Port     int    `yaml:"smtp_port"`
	User     string `yaml:"smtp_user"`
	Password string `yaml:"smtp_password"`
	From     string `yaml:"from_email"`
}

func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

type PipelineConfig struct {
	StrictTransitions bool   `yaml:"strict_transitions"`
	CompanyName       string `yaml:"company_name"`
}

type ReminderConfig struct {
	Schedule  string        `yaml:"schedule"`
	Lookahead time.Duration `yaml:"lookahead"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Mail     MailConfig     `yaml:"mail"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Reminder ReminderConfig `yaml:"reminder"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
			LeadRateLimit:  10,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		RabbitMQ: RabbitMQConfig{
			User:     "guest",
			Password: "guest",
			Host:     "localhost",
			Port:     "5672",
		},
		Mail: MailConfig{
			Port: 587,
			From: "nao-responda@ligue.com.br",
		},
		Pipeline: PipelineConfig{
			CompanyName: "Ligue",
		},
		Reminder: ReminderConfig{
			Schedule:  "@every 5m",
			Lookahead: time.Hour,
		},
	}
}

// Load carrega .env (se existir), o YAML em path (se existir) e por fim as
// variáveis de ambiente, nessa ordem de precedência crescente.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if env := os.Getenv("CONFIG_FILE"); env != "" {
		path = env
	}

	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("falha ao abrir %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("falha ao ler %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var errs []error

	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.RabbitMQ.User, "RABBITMQ_USER")
	setString(&cfg.RabbitMQ.Password, "RABBITMQ_PASSWORD")
	setString(&cfg.RabbitMQ.Host, "RABBITMQ_HOST")
	setString(&cfg.RabbitMQ.Port, "RABBITMQ_PORT")
	setString(&cfg.Mail.Host, "MAIL_HOST")
	setString(&cfg.Mail.User, "MAIL_USER")
	setString(&cfg.Mail.Password, "MAIL_PASS")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Reminder.Schedule, "REMINDER_SCHEDULE")
	setString(&cfg.Pipeline.CompanyName, "COMPANY_NAME")

	errs = append(errs,
		setInt(&cfg.Server.Port, "PORT"),
		setInt(&cfg.Server.LeadRateLimit, "LEAD_RATE_LIMIT"),
		setInt(&cfg.Mail.Port, "MAIL_PORT"),
		setBool(&cfg.Pipeline.StrictTransitions, "PIPELINE_STRICT_TRANSITIONS"),
		setBool(&cfg.Database.AutoMigrate, "DATABASE_AUTO_MIGRATE"),
	)

	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}

	return errors.Join(errs...)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port inválida: %d", c.Server.Port))
	}
	if c.Server.LeadRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("server.lead_rate_limit deve ser positivo"))
	}
	if c.Reminder.Lookahead <= 0 {
		errs = append(errs, fmt.Errorf("reminder.lookahead deve ser positivo"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s inválido: %q", key, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s inválido: %q", key, v)
	}
	*dst = b
	return nil
}
