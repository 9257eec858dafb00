package service

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretSource resolves AI provider API keys that are not present in the
// environment. Production deployments keep keys in Secret Manager; local
// ones use plain env vars and never construct this.
type SecretSource interface {
	ProviderAPIKey(ctx context.Context, provider string) (string, error)
}

type secretManagerSource struct {
	client    *secretmanager.Client
	projectID string
}

// NewSecretManagerSource creates a Secret Manager backed SecretSource.
func NewSecretManagerSource(ctx context.Context, projectID, credentialsFile string) (SecretSource, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is required for secret manager lookups")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerSource{client: client, projectID: projectID}, nil
}

// ProviderAPIKey fetches the latest version of ai-<provider>-api-key.
func (s *secretManagerSource) ProviderAPIKey(ctx context.Context, provider string) (string, error) {
	name := fmt.Sprintf("projects/%s/secrets/ai-%s-api-key/versions/latest", s.projectID, provider)
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("access secret for provider %s: %w", provider, err)
	}
	return string(result.Payload.Data), nil
}
