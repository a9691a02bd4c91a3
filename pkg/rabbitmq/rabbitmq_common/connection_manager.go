package rabbitmq_common

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultReconnectInterval = 10 * time.Second

// ConnectionManager держит одно соединение с брокером на процесс и
// раздает из него каналы издателям и потребителям
type ConnectionManager struct {
	url               string
	reconnectInterval time.Duration

	mutex      sync.RWMutex
	connection *amqp.Connection

	stop     chan struct{}
	stopOnce sync.Once

	Logger Logger
}

var (
	managerInstance *ConnectionManager
	managerErr      error
	once            sync.Once
)

// GetManager возвращает общий для процесса менеджер, создавая его при первом вызове
func GetManager(url string, logger Logger) (*ConnectionManager, error) {
	once.Do(func() {
		managerInstance, managerErr = NewConnectionManager(url, logger, defaultReconnectInterval)
	})
	return managerInstance, managerErr
}

// NewConnectionManager подключается к брокеру и запускает фоновое переподключение
func NewConnectionManager(url string, logger Logger, reconnectInterval time.Duration) (*ConnectionManager, error) {
	if err := (Config{URL: url}).Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	if reconnectInterval <= 0 {
		reconnectInterval = defaultReconnectInterval
	}

	m := &ConnectionManager{
		url:               url,
		reconnectInterval: reconnectInterval,
		stop:              make(chan struct{}),
		Logger:            logger,
	}

	if _, err := m.getConnection(); err != nil {
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	go m.watchConnection()
	return m, nil
}

func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mutex.RLock()
	if m.connection != nil && !m.connection.IsClosed() {
		conn := m.connection
		m.mutex.RUnlock()
		return conn, nil
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// соединение могли восстановить, пока ждали блокировку
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	m.Logger.Debug("ConnectionManager: dialing broker")
	conn, err := amqp.Dial(m.url)
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to dial RabbitMQ: %w", err)
	}
	m.connection = conn
	m.Logger.Info("ConnectionManager: connected")
	return conn, nil
}

// GetChannel открывает новый канал на общем соединении
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

func (m *ConnectionManager) watchConnection() {
	ticker := time.NewTicker(m.reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
		}

		m.mutex.RLock()
		healthy := m.connection == nil || !m.connection.IsClosed()
		m.mutex.RUnlock()
		if healthy {
			continue
		}

		m.Logger.Warn("ConnectionManager: connection lost, reconnecting")
		if _, err := m.getConnection(); err != nil {
			m.Logger.Error(err, "ConnectionManager: reconnect failed")
		}
	}
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		m.Logger.Debug("ConnectionManager: connection already closed")
		return nil
	}

	if err := m.connection.Close(); err != nil {
		m.Logger.Error(err, "ConnectionManager: failed to close connection")
		return err
	}
	m.Logger.Info("ConnectionManager: connection closed")
	return nil
}
