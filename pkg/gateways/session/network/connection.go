package network

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchangeTypeTopic = "topic"
	durable           = true
	autoDelete        = true
	exclusive         = true
	internal          = false
	noWait            = false
	autoAck           = true
	noLocal           = false
	mandatory         = false
	immediate         = false
)

// confirmation is satisfied by *amqp.DeferredConfirmation.
type confirmation interface {
	Done() <-chan struct{}
	Acked() bool
}

type connection interface {
	connect() error
	createChannel() error
	confirm() error
	exchangeDeclare(name, exchangeType string) error
	queueDeclare(name string) error
	queueBind(queueName, key, exchangeName string) error
	consume(queue, consumer string) (<-chan amqp.Delivery, error)
	cancel(consumer string) error
	publish(ctx context.Context, exchange, key string, body []byte) (confirmation, error)
	isClosed() bool
	close() error
	closeChannel() error
}

type AmqpConnection struct {
	url     string
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAmqpConnection(url string) *AmqpConnection {
	return &AmqpConnection{url: url}
}

func (a *AmqpConnection) connect() error {
	conn, err := amqp.Dial(a.url)
	if err == nil {
		a.conn = conn
	}
	return err
}

func (a *AmqpConnection) createChannel() error {
	channel, err := a.conn.Channel()
	if err == nil {
		a.channel = channel
	}
	return err
}

func (a *AmqpConnection) confirm() error {
	return a.channel.Confirm(noWait)
}

func (a *AmqpConnection) exchangeDeclare(name, exchangeType string) error {
	return a.channel.ExchangeDeclare(
		name,
		exchangeType,
		durable,
		false, // delete when unused
		internal,
		noWait,
		nil, // arguments
	)
}

// queueDeclare declares a queue private to this connection; the broker drops it once its consumer goes away.
func (a *AmqpConnection) queueDeclare(name string) error {
	_, err := a.channel.QueueDeclare(
		name,
		false, // durable
		autoDelete,
		exclusive,
		noWait,
		nil, // arguments
	)
	return err
}

func (a *AmqpConnection) queueBind(queueName, key, exchangeName string) error {
	return a.channel.QueueBind(queueName, key, exchangeName, noWait, nil)
}

func (a *AmqpConnection) consume(queue, consumer string) (<-chan amqp.Delivery, error) {
	return a.channel.Consume(queue, consumer, autoAck, exclusive, noLocal, noWait, nil)
}

func (a *AmqpConnection) cancel(consumer string) error {
	return a.channel.Cancel(consumer, noWait)
}

func (a *AmqpConnection) publish(ctx context.Context, exchange, key string, body []byte) (confirmation, error) {
	deferred, err := a.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		exchange,
		key,
		mandatory,
		immediate,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Transient,
			Body:         body,
		},
	)
	if err != nil || deferred == nil {
		return nil, err
	}
	return deferred, nil
}

func (a *AmqpConnection) isClosed() bool {
	return a.conn == nil || a.conn.IsClosed()
}

func (a *AmqpConnection) close() error {
	return a.conn.Close()
}

func (a *AmqpConnection) closeChannel() error {
	if a.channel == nil {
		return nil
	}
	return a.channel.Close()
}
