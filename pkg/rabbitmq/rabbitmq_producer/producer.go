package rabbitmq_producer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"korx-catalog/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConfirmed - брокер ответил nack на сообщение.
var ErrNotConfirmed = errors.New("producer: message was not confirmed by broker")

// ExchangeConfig описывает обменник, в который пишет производитель.
type ExchangeConfig struct {
	Name       string // пустое имя - default exchange
	Kind       string // direct, fanout, topic, headers
	Durable    bool
	AutoDelete bool
	Args       amqp.Table
}

// PublisherConfig конфигурация для производителя
type PublisherConfig struct {
	Exchange ExchangeConfig

	// Declare - объявить обменник при открытии канала. Без него обменник должен уже существовать.
	Declare bool
	// Confirm включает publisher confirms: Publish ждет ack брокера.
	Confirm bool

	Logger rabbitmq_common.Logger
}

func (c PublisherConfig) validate() error {
	if !c.Declare {
		return nil
	}
	if c.Exchange.Name == "" && c.Exchange.Kind != "" {
		return fmt.Errorf("producer: exchange name is required to declare a %q exchange", c.Exchange.Kind)
	}
	if c.Exchange.Kind == "" && c.Exchange.Name != "" {
		return fmt.Errorf("producer: exchange kind is required to declare exchange %q", c.Exchange.Name)
	}
	return nil
}

// Publisher публикует сообщения в один обменник. Канал один на производителя,
// Publish сериализован мьютексом (amqp.Channel не потокобезопасен для confirms).
type Publisher struct {
	cfg     PublisherConfig
	manager *rabbitmq_common.ConnectionManager
	logger  rabbitmq_common.Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

// NewPublisher открывает канал и, если нужно, объявляет обменник.
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{cfg: cfg, manager: connManager, logger: logger}
	if err := p.ensureChannel(); err != nil {
		return nil, err
	}
	logger.Info("Producer ready", "exchange", cfg.Exchange.Name, "confirm", cfg.Confirm)
	return p, nil
}

// ensureChannel (re)opens the channel; caller holds p.mu or is the constructor.
func (p *Publisher) ensureChannel() error {
	if p.channel != nil && !p.channel.IsClosed() {
		return nil
	}

	_, ch, err := p.manager.GetChannel()
	if err != nil {
		return fmt.Errorf("producer: %w", err)
	}

	if p.cfg.Declare {
		ex := p.cfg.Exchange
		if err := ch.ExchangeDeclare(ex.Name, ex.Kind, ex.Durable, ex.AutoDelete, false, false, ex.Args); err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: declare exchange %q: %w", ex.Name, err)
		}
	}
	if p.cfg.Confirm {
		if err := ch.Confirm(false); err != nil {
			_ = ch.Close()
			return fmt.Errorf("producer: enable confirms: %w", err)
		}
	}

	p.channel = ch
	return nil
}

// Publish отправляет сообщение с ключом маршрутизации. Закрытый брокером канал
// открывается заново; с Confirm ждет подтверждения в пределах ctx.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	if !p.cfg.Confirm {
		if err := p.channel.PublishWithContext(ctx, p.cfg.Exchange.Name, routingKey, false, false, msg); err != nil {
			return fmt.Errorf("producer: publish: %w", err)
		}
		return nil
	}

	confirmation, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, p.cfg.Exchange.Name, routingKey, false, false, msg)
	if err != nil {
		return fmt.Errorf("producer: publish: %w", err)
	}
	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("producer: waiting for confirm: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

// Close закрывает канал производителя. Соединение принадлежит менеджеру.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil && !errors.Is(err, amqp.ErrClosed) {
		p.logger.Error(err, "Failed to close producer channel")
		return err
	}
	p.logger.Info("Producer closed")
	return nil
}
