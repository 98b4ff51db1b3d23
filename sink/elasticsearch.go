package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
	"github.com/north-cloud/richlog/retry"
)

// ElasticsearchConfig holds Elasticsearch sink configuration.
type ElasticsearchConfig struct {
	URL      string `yaml:"url"      env:"ELASTICSEARCH_URL"`
	Username string `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
	Password string `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	APIKey   string `yaml:"api_key"  env:"ELASTICSEARCH_API_KEY"`
	// IndexPrefix names the target indices; entries go to
	// "<prefix>-<levelname>".
	IndexPrefix string        `yaml:"index_prefix" env:"ELASTICSEARCH_LOG_INDEX_PREFIX"`
	PingTimeout time.Duration `yaml:"ping_timeout" env:"ELASTICSEARCH_PING_TIMEOUT"`
	Level       string        `yaml:"level"        env:"ELASTICSEARCH_LOG_LEVEL"`
}

// SetDefaults applies default values to the config if not set.
func (c *ElasticsearchConfig) SetDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:9200"
	}
	if c.IndexPrefix == "" {
		c.IndexPrefix = "logs"
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
}

// Elasticsearch indexes JSON log documents into per-level indices.
type Elasticsearch struct {
	client *es.Client
	prefix string
	enc    *encoding.JSONEncoder
	min    level.Level
}

// NewElasticsearch creates the sink and verifies the connection with
// retried pings, the same way the cluster clients do.
func NewElasticsearch(ctx context.Context, cfg ElasticsearchConfig, min level.Level) (*Elasticsearch, error) {
	cfg.SetDefaults()

	clientConfig := es.Config{
		Addresses: []string{normalizeESURL(cfg.URL)},
	}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if err := retry.WithDefaults(ctx, func() error {
		return pingES(ctx, client, cfg.PingTimeout)
	}); err != nil {
		return nil, fmt.Errorf("connect to elasticsearch: %w", err)
	}

	return &Elasticsearch{
		client: client,
		prefix: cfg.IndexPrefix,
		enc:    encoding.NewJSONEncoder(),
		min:    min,
	}, nil
}

// normalizeESURL adds the http:// prefix if missing.
func normalizeESURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func pingES(ctx context.Context, client *es.Client, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch ping returned %s", res.Status())
	}
	return nil
}

// Emit indexes the entry into "<prefix>-<levelname>" with a random
// document ID.
func (e *Elasticsearch) Emit(entry *encoding.Entry) error {
	payload, err := e.enc.Encode(entry)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      e.prefix + "-" + entry.Level.Lower(),
		DocumentID: uuid.NewString(),
		Body:       bytes.NewReader(payload),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("index log document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index log document: %s", res.Status())
	}
	return nil
}

// MinLevel returns the sink threshold.
func (e *Elasticsearch) MinLevel() level.Level { return e.min }

// Sync is a no-op; documents are indexed synchronously.
func (e *Elasticsearch) Sync() error { return nil }

// Close is a no-op; the ES client has no close method.
func (e *Elasticsearch) Close() error { return nil }
