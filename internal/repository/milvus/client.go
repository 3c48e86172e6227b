package milvus

import (
	"context"
	"fmt"

	client "github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/souravdas/ragchat/internal/config"
)

// Client wraps the Milvus client
type Client struct {
	mc *client.Client
}

// NewClient creates a new Milvus client and verifies the connection
func NewClient(ctx context.Context, cfg config.MilvusConfig) (*Client, error) {
	mc, err := client.New(ctx, &client.ClientConfig{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %w", err)
	}

	return &Client{mc: mc}, nil
}

// Close closes the Milvus connection
func (c *Client) Close(ctx context.Context) error {
	return c.mc.Close(ctx)
}
