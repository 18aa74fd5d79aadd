package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"NewsBriefing/internal/categories"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEnvFile      = ".env"
	DefaultSettingsFile = "digest.yaml"

	// telegramMessageLimit is the hard sendMessage text limit
	telegramMessageLimit = 4096
)

// Naver holds the domestic search credentials. Both empty disables the source.
type Naver struct {
	ClientID     string `env:"NAVER_CLIENT_ID"`
	ClientSecret string `env:"NAVER_CLIENT_SECRET"`
}

// Enabled reports whether both credentials are present
func (n Naver) Enabled() bool {
	return n.ClientID != "" && n.ClientSecret != ""
}

// NewsAPI holds the international search key. Empty disables the source.
type NewsAPI struct {
	APIKey string `env:"NEWS_API_KEY"`
}

// Enabled reports whether the key is present
func (n NewsAPI) Enabled() bool {
	return n.APIKey != ""
}

// Gemini holds the generative backend key
type Gemini struct {
	APIKey string `env:"GEMINI_API_KEY" validate:"required"`
}

// Telegram holds the delivery credentials
type Telegram struct {
	Token  string `env:"TELEGRAM_TOKEN" validate:"required"`
	ChatID string `env:"CHAT_ID" validate:"required"`
}

// Settings is the optional YAML file with tuning knobs
type Settings struct {
	DomesticKeywords      []string      `yaml:"domestic_keywords" validate:"dive,required"`
	InternationalKeywords []string      `yaml:"international_keywords" validate:"dive,required"`
	MaxPerCategory        int           `yaml:"max_per_category" validate:"gte=1,lte=50"`
	DomesticDisplay       int           `yaml:"domestic_display" validate:"gte=1,lte=100"`
	InternationalPageSize int           `yaml:"international_page_size" validate:"gte=1,lte=100"`
	InternationalLanguage string        `yaml:"international_language" validate:"len=2"`
	WindowDays            int           `yaml:"window_days" validate:"gte=1,lte=7"`
	Timezone              string        `yaml:"timezone" validate:"required"`
	ChunkSize             int           `yaml:"chunk_size" validate:"gte=100,lte=4000"`
	Banner                string        `yaml:"banner"`
	DisableWebPagePreview bool          `yaml:"disable_web_page_preview"`
	GeminiModel           string        `yaml:"gemini_model" validate:"required"`
	Temperature           float32       `yaml:"temperature" validate:"gte=0,lte=2"`
	HTTPTimeout           time.Duration `yaml:"http_timeout"`
	SummarizeTimeout      time.Duration `yaml:"summarize_timeout"`
	PromptPath            string        `yaml:"prompt_path"`
	Schedule              string        `yaml:"schedule"`
	LogLevel              string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile               string        `yaml:"log_file"`
}

// Config is built once at process start and handed to every component constructor
type Config struct {
	Naver    Naver
	NewsAPI  NewsAPI
	Gemini   Gemini
	Telegram Telegram
	Settings Settings

	Location *time.Location
	DryRun   bool
}

// Categories returns the ordered keyword buckets for a run
func (c *Config) Categories() []categories.Category {
	return categories.Build(c.Settings.DomesticKeywords, c.Settings.InternationalKeywords)
}

// Options controls where Load reads from
type Options struct {
	// EnvFile is read with godotenv. Empty means DefaultEnvFile, which may be absent.
	EnvFile string
	// SettingsFile is the YAML settings path. Empty means DefaultSettingsFile, which may be absent.
	SettingsFile string
	DryRun       bool
	// LookupEnv defaults to os.LookupEnv
	LookupEnv func(string) (string, bool)
}

// ConfigurationError lists everything that prevents the job from starting
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + strings.Join(e.Problems, "; ")
}

// Load reads .env, process environment and the settings file, applies defaults and validates.
// Process environment wins over the .env file.
func Load(opts Options) (*Config, error) {
	fileEnv, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return nil, &ConfigurationError{Problems: []string{err.Error()}}
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	getenv := func(key string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(fileEnv[key])
	}

	settings, err := loadSettings(opts.SettingsFile)
	if err != nil {
		return nil, &ConfigurationError{Problems: []string{err.Error()}}
	}
	applyDefaults(settings)

	cfg := &Config{
		Naver: Naver{
			ClientID:     getenv("NAVER_CLIENT_ID"),
			ClientSecret: getenv("NAVER_CLIENT_SECRET"),
		},
		NewsAPI:  NewsAPI{APIKey: getenv("NEWS_API_KEY")},
		Gemini:   Gemini{APIKey: getenv("GEMINI_API_KEY")},
		Telegram: Telegram{Token: getenv("TELEGRAM_TOKEN"), ChatID: getenv("CHAT_ID")},
		Settings: *settings,
		DryRun:   opts.DryRun,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func loadSettings(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return &settings, nil
}

func applyDefaults(s *Settings) {
	if len(s.DomesticKeywords) == 0 {
		s.DomesticKeywords = append([]string(nil), categories.DefaultDomesticKeywords...)
	}
	if len(s.InternationalKeywords) == 0 {
		s.InternationalKeywords = append([]string(nil), categories.DefaultInternationalKeywords...)
	}
	if s.MaxPerCategory == 0 {
		s.MaxPerCategory = 10
	}
	if s.DomesticDisplay == 0 {
		s.DomesticDisplay = 50
	}
	if s.InternationalPageSize == 0 {
		s.InternationalPageSize = 10
	}
	if s.InternationalLanguage == "" {
		s.InternationalLanguage = "en"
	}
	if s.WindowDays == 0 {
		s.WindowDays = 1
	}
	if s.Timezone == "" {
		s.Timezone = "Asia/Seoul"
	}
	if s.ChunkSize == 0 {
		s.ChunkSize = 3000
	}
	if s.Banner == "" {
		s.Banner = "📅 링크가 포함된 어제자 뉴스 브리핑"
	}
	if s.GeminiModel == "" {
		s.GeminiModel = "gemini-2.5-flash"
	}
	if s.Temperature == 0 {
		s.Temperature = 0.4
	}
	if s.HTTPTimeout == 0 {
		s.HTTPTimeout = 20 * time.Second
	}
	if s.SummarizeTimeout == 0 {
		s.SummarizeTimeout = 60 * time.Second
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report env var or yaml key instead of the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validate(cfg *Config) error {
	v := newValidator()
	var problems []string

	collect := func(target any) {
		err := v.Struct(target)
		if err == nil {
			return
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			problems = append(problems, err.Error())
			return
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				problems = append(problems, "missing "+fe.Field())
				continue
			}
			problems = append(problems, fmt.Sprintf("invalid %s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		}
	}

	collect(cfg.Gemini)
	if !cfg.DryRun {
		collect(cfg.Telegram)
	}
	collect(cfg.Settings)

	loc, err := time.LoadLocation(cfg.Settings.Timezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone %q", cfg.Settings.Timezone))
	}
	cfg.Location = loc

	if cfg.Settings.HTTPTimeout < time.Second || cfg.Settings.HTTPTimeout > 2*time.Minute {
		problems = append(problems, fmt.Sprintf("invalid http_timeout %s (1s..2m)", cfg.Settings.HTTPTimeout))
	}

	if cfg.Settings.SummarizeTimeout < time.Second || cfg.Settings.SummarizeTimeout > 5*time.Minute {
		problems = append(problems, fmt.Sprintf("invalid summarize_timeout %s (1s..5m)", cfg.Settings.SummarizeTimeout))
	}

	// banner and the blank line after it share the first message with a full segment
	if head := utf8.RuneCountInString(cfg.Settings.Banner) + 2; cfg.Settings.ChunkSize+head > telegramMessageLimit {
		problems = append(problems, fmt.Sprintf("chunk_size %d plus banner exceeds %d characters", cfg.Settings.ChunkSize, telegramMessageLimit))
	}

	if len(cfg.Categories()) == 0 {
		problems = append(problems, "no keywords configured")
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}
