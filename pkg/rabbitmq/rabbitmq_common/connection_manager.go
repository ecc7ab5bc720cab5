package rabbitmq_common

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrManagerClosed возвращается после Close.
var ErrManagerClosed = errors.New("rabbitmq: connection manager is closed")

// ConnectionManager владеет одним соединением с брокером. Обрыв ловится
// через NotifyClose, переподключение идет в фоне с экспоненциальной паузой.
type ConnectionManager struct {
	cfg Config

	mu     sync.Mutex
	conn   *amqp.Connection
	closed bool

	done chan struct{}
	wg   sync.WaitGroup

	Logger Logger
}

// NewConnectionManager подключается сразу: ошибка первого подключения
// возвращается вызывающему.
func NewConnectionManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	m := &ConnectionManager{
		cfg:    cfg.withDefaults(),
		done:   make(chan struct{}),
		Logger: logger,
	}

	conn, err := m.connect()
	if err != nil {
		logger.Error(err, "RabbitMQ initial connection failed")
		return nil, err
	}
	m.watch(conn)
	return m, nil
}

func (m *ConnectionManager) connect() (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(m.cfg.URL, amqp.Config{Heartbeat: m.cfg.Heartbeat, Locale: "en_US"})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		_ = conn.Close()
		return nil, ErrManagerClosed
	}
	m.conn = conn
	m.Logger.Info("RabbitMQ connection established")
	return conn, nil
}

// watch ждет закрытия conn и запускает переподключение.
func (m *ConnectionManager) watch(conn *amqp.Connection) {
	closeCh := conn.NotifyClose(make(chan *amqp.Error, 1))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		select {
		case <-m.done:
			return
		case amqpErr, ok := <-closeCh:
			if !ok || amqpErr == nil {
				// закрыли штатно
				return
			}
			m.Logger.Warn("RabbitMQ connection lost, reconnecting", "reason", amqpErr.Reason, "code", amqpErr.Code)
			m.reconnect()
		}
	}()
}

func (m *ConnectionManager) reconnect() {
	delay := m.cfg.ReconnectDelay
	for attempt := 1; ; attempt++ {
		select {
		case <-m.done:
			return
		case <-time.After(delay):
		}

		conn, err := m.connect()
		if err == nil {
			m.watch(conn)
			return
		}
		if errors.Is(err, ErrManagerClosed) {
			return
		}
		m.Logger.Error(err, "RabbitMQ reconnect attempt failed", "attempt", attempt, "next_delay", delay.String())
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// GetChannel открывает новый канал на текущем соединении. Пока идет
// переподключение, возвращает ошибку: вызывающий повторит позже.
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	m.mu.Lock()
	conn, closed := m.conn, m.closed
	m.mu.Unlock()

	if closed {
		return nil, nil, ErrManagerClosed
	}
	if conn == nil || conn.IsClosed() {
		return nil, nil, fmt.Errorf("rabbitmq: no open connection")
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("rabbitmq: failed to open channel: %w", err)
	}
	return conn, ch, nil
}

// Close останавливает переподключение и закрывает соединение. Повторный вызов безопасен.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	var err error
	if conn != nil && !conn.IsClosed() {
		if err = conn.Close(); err != nil {
			m.Logger.Error(err, "Failed to close RabbitMQ connection")
		}
	}
	m.wg.Wait()
	m.Logger.Info("RabbitMQ connection manager closed")
	return err
}
