package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/pkg/config"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ActivityExchange   = "activity"
	ActivityQueueName  = "activity_queue"
	ActivityRoutingKey = "activity"
	activityConsumer   = "activity-worker"
)

// channel is the subset of *amqp.Channel the client drives.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type Client struct {
	conn    *amqp.Connection
	channel channel
	logger  *logger.Logger
	wg      sync.WaitGroup
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  log,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		ActivityExchange, // name
		"direct",         // type
		true,             // durable
		false,            // auto-deleted
		false,            // internal
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		ActivityQueueName, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(ActivityQueueName, ActivityRoutingKey, ActivityExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

// Close stops consuming and releases the channel and connection. It waits
// for an in-flight delivery to finish.
func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	c.wg.Wait()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish sends payload as a persistent JSON message to the activity exchange.
func (c *Client) Publish(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		ActivityExchange,   // exchange
		ActivityRoutingKey, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s: %v", ActivityExchange, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Consume delivers activity messages to handler until ctx is done or the
// channel closes. A handler error requeues the message; a message the handler
// rejects as malformed should return ErrMalformed to drop it instead.
func (c *Client) Consume(ctx context.Context, handler func(body []byte) error) error {
	msgs, err := c.channel.Consume(
		ActivityQueueName, // queue
		activityConsumer,  // consumer
		false,             // auto-ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", ActivityQueueName)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.handleDeliveries(ctx, msgs, handler)
	}()
	return nil
}

// ErrMalformed marks a message that will never succeed and must not be
// requeued.
var ErrMalformed = errors.New("malformed message")

func (c *Client) handleDeliveries(ctx context.Context, msgs <-chan amqp.Delivery, handler func([]byte) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := handler(msg.Body); err != nil {
				requeue := !errors.Is(err, ErrMalformed)
				c.logger.Error("[RABBITMQ] Handler failed (requeue=%t): %v", requeue, err)
				msg.Nack(false, requeue)
				continue
			}
			msg.Ack(false)
		}
	}
}
