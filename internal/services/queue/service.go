package queue

import (
	"fmt"
	"sync"

	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// QueueService carries "process all" jobs to workers and fans item status
// events out to any listener bound to the events exchange.
type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	publishMu sync.Mutex
	logger    *zap.Logger
	queueName string
	exchange  string
}

func NewQueueService(cfg config.RabbitMQConfig, logger *zap.Logger) (*QueueService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"fanout",     // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare events exchange: %w", err)
	}

	// One unacked batch per consumer; a batch can run for minutes.
	if err := channel.Qos(1, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set qos: %w", err)
	}

	return &QueueService{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: cfg.QueueName,
		exchange:  cfg.Exchange,
	}, nil
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}
