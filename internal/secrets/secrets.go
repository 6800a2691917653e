// Package secrets resolves the JWT signing secret from Google Secret
// Manager so deployed environments never carry it in plain env vars.
package secrets

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// FetchSecret reads the latest version of a secret by full resource name,
// e.g. "projects/my-project/secrets/jwt-secret".
func FetchSecret(ctx context.Context, name string, opts ...option.ClientOption) (string, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name + "/versions/latest",
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}
