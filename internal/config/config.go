package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`

	// AI provider settings. A provider with an empty key is treated as not
	// configured; ProviderPriority decides the fallback order when a request
	// does not name a provider.
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel      string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	AnthropicAPIKey  string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-5"`
	ProviderPriority string `envconfig:"AI_PROVIDER_PRIORITY" default:"openai,anthropic"`

	// When set, provider API keys missing from the environment are looked up
	// in Google Secret Manager under ai-<provider>-api-key.
	GCPProjectID       string `envconfig:"GCP_PROJECT_ID"`
	GCPCredentialsFile string `envconfig:"GCP_CREDENTIALS_FILE"`

	// Domain event topics. Publishing is disabled when GCPProjectID is empty.
	RepurposeTopic string `envconfig:"REPURPOSE_TOPIC" default:"content-repurposed"`
	BillingTopic   string `envconfig:"BILLING_TOPIC" default:"billing-overage"`

	// Content export settings (S3-compatible object storage).
	S3URL           string `envconfig:"S3_URL"`
	S3Bucket        string `envconfig:"S3_BUCKET" default:"content-exports"`
	S3Region        string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey     string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey     string `envconfig:"S3_SECRET_KEY"`
	ExportURLTTLMin int    `envconfig:"EXPORT_URL_TTL_MIN" default:"15"`

	// Usage view cache.
	UsageCacheTTLSec int `envconfig:"USAGE_CACHE_TTL_SEC" default:"30"`

	// Settlement worker settings.
	OverageQueueName           string `envconfig:"OVERAGE_QUEUE_NAME" default:"overage_settlement"`
	OveragePollTimeoutSec      int    `envconfig:"OVERAGE_POLL_TIMEOUT_SEC" default:"30"`
	OveragePollMaxMsg          int    `envconfig:"OVERAGE_POLL_MAX_MSG" default:"1"`
	OverageMaxRetries          int    `envconfig:"OVERAGE_MAX_RETRIES" default:"5"`
	OverageBackoffInitialSec   int    `envconfig:"OVERAGE_BACKOFF_INITIAL_SEC" default:"1"`
	OverageBackoffMaxSec       int    `envconfig:"OVERAGE_BACKOFF_MAX_SEC" default:"60"`
	OverageDeadLetterQueueName string `envconfig:"OVERAGE_DEAD_LETTER_QUEUE_NAME" default:"overage_settlement_dlq"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
