package helper

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/joho/godotenv"
)

const (
	DefaultIndexName       = "countries_wiki"
	DefaultRequestTimeout  = 600 * time.Second
	DefaultElserModelID    = ".elser_model_2_linux-x86_64"
	DefaultWikipediaAPIURL = "https://en.wikipedia.org/w/api.php"
)

// ServiceConfiguration holds the connection settings for the search service
type ServiceConfiguration struct {
	Host            string
	APIKey          string
	Username        string
	Password        string
	CACert          []byte
	Index           string
	RequestTimeout  time.Duration
	ElserModelID    string
	WikipediaAPIURL string
	CorpusFile      string
	LogLevel        string
}

// Service bundles the search client with the logger every handler writes to
type Service struct {
	Name   string
	Config *ServiceConfiguration
	Client *elasticsearch.Client
	Logger *slog.Logger
}

// LoadEnvFile loads a .env file into the environment if one exists.
// Variables already set in the environment take precedence.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return NewError("load env file", err)
	}
	return nil
}

// NewServiceConfiguration reads the service configuration from the environment
func NewServiceConfiguration() (*ServiceConfiguration, error) {
	config := &ServiceConfiguration{
		Host:            os.Getenv("ES_HOST"),
		APIKey:          os.Getenv("ES_API_KEY"),
		Username:        os.Getenv("ES_USERNAME"),
		Password:        os.Getenv("ES_PASSWORD"),
		Index:           getEnvOrDefault("ES_INDEX", DefaultIndexName),
		ElserModelID:    getEnvOrDefault("ES_ELSER_MODEL_ID", DefaultElserModelID),
		WikipediaAPIURL: getEnvOrDefault("WIKIPEDIA_API_URL", DefaultWikipediaAPIURL),
		CorpusFile:      os.Getenv("CORPUS_FILE"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
		RequestTimeout:  DefaultRequestTimeout,
	}

	if raw := os.Getenv("ES_REQUEST_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, NewError("parse ES_REQUEST_TIMEOUT", err)
		}
		config.RequestTimeout = timeout
	}

	if path := os.Getenv("ES_CA_CERT"); path != "" {
		cert, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
		if err != nil {
			return nil, NewError("read ES_CA_CERT", err)
		}
		config.CACert = cert
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the configuration can be used to connect
func (c *ServiceConfiguration) Validate() error {
	if c.Host == "" {
		return NewError("validate configuration", fmt.Errorf("ES_HOST is required"))
	}
	if c.Index == "" {
		return NewError("validate configuration", fmt.Errorf("index name is required"))
	}
	if c.RequestTimeout <= 0 {
		return NewError("validate configuration", fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.Username != "" && c.Password == "" {
		return NewError("validate configuration", fmt.Errorf("ES_PASSWORD is required when ES_USERNAME is set"))
	}
	return nil
}

// NewService creates the search client for the given configuration.
// Retries are disabled, every call is attempted exactly once.
func NewService(name string, config *ServiceConfiguration, logger *slog.Logger) (*Service, error) {
	if config == nil {
		return nil, NewError("service configuration validation", fmt.Errorf("configuration is nil"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewLogger(os.Stdout, config.LogLevel)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{config.Host},
		APIKey:       config.APIKey,
		Username:     config.Username,
		Password:     config.Password,
		CACert:       config.CACert,
		DisableRetry: true,
	})
	if err != nil {
		return nil, NewError("create search client", err)
	}

	return &Service{
		Name:   name,
		Config: config,
		Client: client,
		Logger: logger.With(slog.String("service", name)),
	}, nil
}

// NewLogger creates the pretty console logger used by all commands
func NewLogger(out io.Writer, level string) *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: ParseLogLevel(level),
		},
	}
	return slog.New(NewPrettyHandler(out, opts))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
