package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultEndpoint адрес сервиса визуализации по умолчанию
const DefaultEndpoint = "https://033e3304c31b.ngrok-free.app/visualize"

type Config struct {
	TelegramToken     string        `mapstructure:"telegram_token" yaml:"telegram_token"`
	EndpointURL       string        `mapstructure:"endpoint_url" yaml:"endpoint_url"`
	UploadField       string        `mapstructure:"upload_field" yaml:"upload_field"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	StrictContentType bool          `mapstructure:"strict_content_type" yaml:"strict_content_type"`
	PreviewMaxSide    int           `mapstructure:"preview_max_side" yaml:"preview_max_side"`
	OutputDir         string        `mapstructure:"output_dir" yaml:"output_dir"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		EndpointURL:    DefaultEndpoint,
		UploadField:    "image",
		RequestTimeout: 0, // без таймаута
		PreviewMaxSide: 1280,
		OutputDir:      "results",
		LogLevel:       "info",
	}
}

// Load читает .env, затем конфиг-файл (если есть), затем переменные окружения.
// Если path пустой, ищем .dgm-demo.yaml в домашней и текущей директории.
func Load(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".dgm-demo")
		v.SetConfigType("yaml")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("telegram_token", cfg.TelegramToken)
	v.SetDefault("endpoint_url", cfg.EndpointURL)
	v.SetDefault("upload_field", cfg.UploadField)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("strict_content_type", cfg.StrictContentType)
	v.SetDefault("preview_max_side", cfg.PreviewMaxSide)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("log_level", cfg.LogLevel)
}

// Validate проверяет значения, без которых клиент не сможет работать.
func (c *Config) Validate() error {
	u, err := url.Parse(c.EndpointURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint_url: %q must be an absolute http(s) URL", c.EndpointURL)
	}

	if strings.TrimSpace(c.UploadField) == "" {
		return errors.New("upload_field must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative: %s", c.RequestTimeout)
	}
	if c.PreviewMaxSide < 0 {
		return fmt.Errorf("preview_max_side must not be negative: %d", c.PreviewMaxSide)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

// Level возвращает уровень логирования (info, если не распознан).
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// DefaultPath путь к пользовательскому конфигу.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".dgm-demo.yaml"), nil
}
