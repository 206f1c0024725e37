// Package secrets wraps Secret Manager with create, version, access, list
// and delete operations scoped to one project.
package secrets

import (
	"context"
	"fmt"
	"hash/crc32"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/iterator"
)

// Client wraps a Secret Manager client bound to one project.
type Client struct {
	c         *secretmanager.Client
	projectID string
}

// SecretInfo describes one secret.
type SecretInfo struct {
	Name    string
	Created time.Time
	Labels  map[string]string
}

// New creates a Secret Manager client using Application Default Credentials.
func New(ctx context.Context, projectID string) (*Client, error) {
	c, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating secret manager client: %w", err)
	}
	return &Client{c: c, projectID: projectID}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.c.Close()
}

// Create creates an empty secret with automatic replication.
func (c *Client) Create(ctx context.Context, secretID string, labels map[string]string) error {
	_, err := c.c.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
		Parent:   fmt.Sprintf("projects/%s", c.projectID),
		SecretId: secretID,
		Secret: &secretmanagerpb.Secret{
			Labels: labels,
			Replication: &secretmanagerpb.Replication{
				Replication: &secretmanagerpb.Replication_Automatic_{
					Automatic: &secretmanagerpb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating secret %s: %w", secretID, err)
	}
	return nil
}

// AddVersion stores payload as a new version of the secret and returns the
// version resource name. The payload checksum guards against transit
// corruption.
func (c *Client) AddVersion(ctx context.Context, secretID string, payload []byte) (string, error) {
	checksum := int64(crc32.Checksum(payload, crc32.MakeTable(crc32.Castagnoli)))
	resp, err := c.c.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: fmt.Sprintf("projects/%s/secrets/%s", c.projectID, secretID),
		Payload: &secretmanagerpb.SecretPayload{
			Data:       payload,
			DataCrc32C: &checksum,
		},
	})
	if err != nil {
		return "", fmt.Errorf("adding version to secret %s: %w", secretID, err)
	}
	return resp.Name, nil
}

// Access returns the payload of a secret version; version "latest" when
// version is empty.
func (c *Client) Access(ctx context.Context, secretID, version string) ([]byte, error) {
	if version == "" {
		version = "latest"
	}
	resp, err := c.c.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/%s", c.projectID, secretID, version),
	})
	if err != nil {
		return nil, fmt.Errorf("accessing secret %s: %w", secretID, err)
	}
	return resp.Payload.Data, nil
}

// List returns every secret in the project.
func (c *Client) List(ctx context.Context) ([]SecretInfo, error) {
	it := c.c.ListSecrets(ctx, &secretmanagerpb.ListSecretsRequest{
		Parent: fmt.Sprintf("projects/%s", c.projectID),
	})
	var out []SecretInfo
	for {
		s, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing secrets: %w", err)
		}
		out = append(out, SecretInfo{
			Name:    shortName(s.Name),
			Created: s.CreateTime.AsTime(),
			Labels:  s.Labels,
		})
	}
	return out, nil
}

// Delete removes a secret and all its versions.
func (c *Client) Delete(ctx context.Context, secretID string) error {
	err := c.c.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s", c.projectID, secretID),
	})
	if err != nil {
		return fmt.Errorf("deleting secret %s: %w", secretID, err)
	}
	return nil
}

// shortName strips the projects/... prefix from a secret resource name.
func shortName(resource string) string {
	for i := len(resource) - 1; i >= 0; i-- {
		if resource[i] == '/' {
			return resource[i+1:]
		}
	}
	return resource
}
