package pubsub

import (
	"context"
	"testing"

	"github.com/angelmondragon/dryfruit-backend/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "dryfruit-prod"}

	if got := c.topicResourceName("df-order-events"); got != "projects/dryfruit-prod/topics/df-order-events" {
		t.Fatalf("unexpected resource name %q", got)
	}
	full := "projects/other/topics/orders"
	if got := c.topicResourceName(full); got != full {
		t.Fatalf("expected full name passthrough, got %q", got)
	}
	if got := c.topicResourceName("  "); got != "" {
		t.Fatalf("expected blank name to resolve empty, got %q", got)
	}
	if got := (&Client{}).topicResourceName("orders"); got != "" {
		t.Fatalf("expected missing project to resolve empty, got %q", got)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("orders") != nil || c.OrdersPublisher() != nil {
		t.Fatal("expected nil publishers from nil client")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping on nil client to fail")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{OrdersTopic: "orders"}, nil); err == nil {
		t.Fatal("expected missing project id to fail")
	}
}
