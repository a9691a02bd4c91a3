package rabbitmq_common

import (
	"fmt"
	"net/url"
)

// Config содержит общие для издателей и потребителей параметры подключения
type Config struct {
	URL string
}

// Validate проверяет, что URL брокера задан и имеет схему amqp/amqps
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: invalid URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("rabbitmq: unsupported URL scheme %q", u.Scheme)
	}
	return nil
}
