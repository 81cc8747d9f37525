package natsutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

type Client struct {
	Conn *nats.Conn
}

func Connect(url string) (*Client, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Client{Conn: conn}, nil
}

func ConnectWithRetry(url string, timeout time.Duration) (*Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := Connect(url)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("connect nats timeout after %s: %w", timeout, lastErr)
}

func (c *Client) Close() {
	if c == nil || c.Conn == nil {
		return
	}
	_ = c.Conn.Drain()
	c.Conn.Close()
}

type Publisher interface {
	Publish(subject string, payload []byte) error
}

type ConnPublisher struct {
	Conn *nats.Conn
}

func (p ConnPublisher) Publish(subject string, payload []byte) error {
	return p.Conn.Publish(subject, payload)
}

// SubscribeFlag watches a host signal subject carrying a boolean state
// ("dark"/"light", "online"/"offline", …) and invokes apply on each message.
func SubscribeFlag(conn *nats.Conn, subject string, apply func(bool)) (*nats.Subscription, error) {
	return conn.Subscribe(subject, func(msg *nats.Msg) {
		apply(ParseFlag(string(msg.Data)))
	})
}

func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dark", "online", "on", "true", "1":
		return true
	default:
		return false
	}
}
