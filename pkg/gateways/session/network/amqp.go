package network

import (
	"context"
	"sync"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultExchange    = "thermo.topics"
	defaultAMQPTimeout = 5 * time.Second
)

// AMQP maps topics onto routing keys of a topic exchange. Every subscription gets its own exclusive queue, so
// per-topic order is the queue order.
type AMQP struct {
	conn       connection
	url        string
	exchange   string
	clientName string
	timeout    time.Duration
	// channel writes are not safe for concurrent use
	writeLock sync.Mutex
	consumers map[string]string
	lock      sync.Mutex
	stopped   chan struct{}
	stopOnce  sync.Once
	log       *logrus.Entry
}

func NewAMQP(conf entities.BrokerConfig, clientName string, log *logrus.Entry) *AMQP {
	return newAMQP(NewAmqpConnection(conf.URL), conf, clientName, log)
}

func newAMQP(conn connection, conf entities.BrokerConfig, clientName string, log *logrus.Entry) *AMQP {
	exchange := conf.Exchange
	if exchange == "" {
		exchange = defaultExchange
	}
	timeout := conf.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultAMQPTimeout
	}
	return &AMQP{
		conn:       conn,
		url:        conf.URL,
		exchange:   exchange,
		clientName: clientName,
		timeout:    timeout,
		consumers:  make(map[string]string),
		stopped:    make(chan struct{}),
		log:        log,
	}
}

func (a *AMQP) Start() error {
	if err := a.conn.connect(); err != nil {
		return errors.Wrapf(ErrConnection, "dial %s: %v", a.url, err)
	}
	if err := a.setup(); err != nil {
		// the dial succeeded, so the connection must not outlive the failed start
		if stopErr := a.Stop(); stopErr != nil {
			a.log.Debugf("close after failed start: %v", stopErr)
		}
		return err
	}
	return nil
}

func (a *AMQP) setup() error {
	if err := a.conn.createChannel(); err != nil {
		return errors.Wrapf(ErrConnection, "open channel: %v", err)
	}
	if err := a.conn.confirm(); err != nil {
		return errors.Wrapf(ErrConnection, "enable publisher confirms: %v", err)
	}
	if err := a.conn.exchangeDeclare(a.exchange, exchangeTypeTopic); err != nil {
		return errors.Wrapf(ErrConnection, "declare exchange %s: %v", a.exchange, err)
	}
	return nil
}

func (a *AMQP) Stop() error {
	var err error
	a.stopOnce.Do(func() {
		close(a.stopped)
		if closeErr := a.conn.closeChannel(); closeErr != nil {
			a.log.Debugf("close channel: %v", closeErr)
		}
		if !a.conn.isClosed() {
			err = a.conn.close()
		}
	})
	return err
}

func (a *AMQP) OnMessage(msgChan chan InMsg, topic string) error {
	queueName := a.queueName(topic)

	a.writeLock.Lock()
	defer a.writeLock.Unlock()

	if err := a.conn.queueDeclare(queueName); err != nil {
		return errors.Wrapf(err, "declare queue %s", queueName)
	}
	if err := a.conn.queueBind(queueName, topic, a.exchange); err != nil {
		return errors.Wrapf(err, "bind queue %s to %s", queueName, topic)
	}
	deliveries, err := a.conn.consume(queueName, queueName)
	if err != nil {
		return errors.Wrapf(err, "consume %s", queueName)
	}

	a.lock.Lock()
	a.consumers[topic] = queueName
	a.lock.Unlock()

	go a.convertDeliveryToInMsg(deliveries, msgChan)
	return nil
}

func (a *AMQP) Unsubscribe(topic string) error {
	a.lock.Lock()
	consumer, ok := a.consumers[topic]
	delete(a.consumers, topic)
	a.lock.Unlock()
	if !ok {
		return nil
	}

	a.writeLock.Lock()
	defer a.writeLock.Unlock()
	return errors.Wrapf(a.conn.cancel(consumer), "cancel consumer %s", consumer)
}

func (a *AMQP) Publish(topic string, body []byte, options *MessageOptions) error {
	timeout := confirmTimeout(options, a.timeout)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.writeLock.Lock()
	deferred, err := a.conn.publish(ctx, a.exchange, topic, body)
	a.writeLock.Unlock()
	if err != nil {
		if errors.Is(err, amqp.ErrClosed) {
			return errors.Wrapf(ErrNotConnected, "publish to %s", topic)
		}
		return errors.Wrapf(err, "publish to %s", topic)
	}

	if options == nil || !options.Confirm || deferred == nil {
		return nil
	}

	select {
	case <-deferred.Done():
		if !deferred.Acked() {
			return errors.Errorf("publish to %s rejected by broker", topic)
		}
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ErrPublishTimeout, "publish to %s", topic)
	}
}

func (a *AMQP) IsConnected() bool {
	return !a.conn.isClosed()
}

func (a *AMQP) queueName(topic string) string {
	return a.clientName + "." + topic
}

func (a *AMQP) convertDeliveryToInMsg(deliveries <-chan amqp.Delivery, msgChan chan InMsg) {
	for d := range deliveries {
		select {
		case msgChan <- InMsg{Topic: d.RoutingKey, Body: d.Body}:
		case <-a.stopped:
			return
		}
	}
}
