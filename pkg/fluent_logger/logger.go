package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config хранит параметры подключения к Fluent Bit
type Config struct {
	Host      string // "127.0.0.1" или имя сервиса в docker-compose
	Port      int    // обычно 24224
	TagPrefix string // префикс тегов, как правило имя сервиса

	// Async включает буферизованную отправку, клиент не блокирует вызывающего
	Async   bool
	Timeout time.Duration
}

// NewClient создает клиента Fluent Bit. Соединение устанавливается лениво,
// поэтому ошибки сети проявятся только при первой отправке записи.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	fluentCfg := fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      cfg.Async,
	}
	if cfg.Timeout > 0 {
		fluentCfg.Timeout = cfg.Timeout
	}

	client, err := fluent.New(fluentCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return client, nil
}
