package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// secretVersionName accepts "projects/p/secrets/s" or a full version
// resource name and returns the version to access.
func secretVersionName(secret string) (string, error) {
	secret = strings.Trim(strings.TrimSpace(secret), "/")
	parts := strings.Split(secret, "/")
	switch {
	case len(parts) == 4 && parts[0] == "projects" && parts[2] == "secrets":
		return secret + "/versions/latest", nil
	case len(parts) == 6 && parts[0] == "projects" && parts[2] == "secrets" && parts[4] == "versions":
		return secret, nil
	}
	return "", fmt.Errorf("invalid secret name %q", secret)
}

// credentialsFromSecret reads a service account key stored in Secret Manager.
func credentialsFromSecret(ctx context.Context, secret string) ([]byte, error) {
	name, err := secretVersionName(secret)
	if err != nil {
		return nil, err
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("secret manager client: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("access %s: %w", name, err)
	}
	if resp == nil || resp.Payload == nil || len(resp.Payload.Data) == 0 {
		return nil, errors.New("empty secret payload: " + name)
	}
	return resp.Payload.Data, nil
}

// clientOptions picks credentials: a Secret Manager secret, then a key file,
// then application default credentials.
func clientOptions(ctx context.Context, secret, file string, scopes ...string) ([]option.ClientOption, error) {
	var opts []option.ClientOption
	switch {
	case secret != "":
		key, err := credentialsFromSecret(ctx, secret)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsJSON(key))
	case file != "":
		opts = append(opts, option.WithCredentialsFile(file))
	}
	if len(scopes) > 0 {
		opts = append(opts, option.WithScopes(scopes...))
	}
	return opts, nil
}
