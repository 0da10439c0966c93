// Package session owns one broker connection per endpoint: it derives the device topics, dispatches inbound
// messages to registered handlers on its own delivery goroutine and tears everything down exactly once.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/gateways/session/network"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const deliveryBufferSize = 64

// ErrSessionClosed is returned by operations attempted after Close.
var ErrSessionClosed = errors.New("session closed")

// Handler receives the raw payload of one inbound message. A returned error is logged, never propagated.
type Handler func(payload []byte) error

type Session struct {
	messaging      network.Messaging
	device         entities.DeviceIdentity
	confirmTimeout time.Duration
	log            *logrus.Entry

	lock     sync.RWMutex
	state    string
	handlers map[string]Handler

	msgChan   chan network.InMsg
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// Connect opens the transport selected by conf and starts the delivery loop. It does not retry: a refused or
// unreachable broker yields network.ErrConnection and the caller decides what to do.
func Connect(conf entities.BrokerConfig, device entities.DeviceIdentity, clientName string, log *logrus.Entry) (*Session, error) {
	messaging, err := network.NewMessaging(conf, clientName, log)
	if err != nil {
		return nil, err
	}
	return NewSession(messaging, device, conf.ConfirmTimeout, log)
}

// NewSession starts a session over an already built transport.
func NewSession(messaging network.Messaging, device entities.DeviceIdentity, confirmTimeout time.Duration, log *logrus.Entry) (*Session, error) {
	s := &Session{
		messaging:      messaging,
		device:         device,
		confirmTimeout: confirmTimeout,
		log:            log,
		state:          entities.SessionConnecting,
		handlers:       make(map[string]Handler),
		msgChan:        make(chan network.InMsg, deliveryBufferSize),
		done:           make(chan struct{}),
		loopDone:       make(chan struct{}),
	}

	if err := messaging.Start(); err != nil {
		if stopErr := messaging.Stop(); stopErr != nil {
			log.Debugf("stop after failed start: %v", stopErr)
		}
		s.setState(entities.SessionDisconnected)
		if errors.Is(err, network.ErrConnection) {
			return nil, err
		}
		return nil, errors.Wrap(network.ErrConnection, err.Error())
	}

	s.setState(entities.SessionConnected)
	go s.deliveryLoop()

	log.Infof("session connected for device %s", device.ID)
	return s, nil
}

// Device returns the identity the typed operations route by.
func (s *Session) Device() entities.DeviceIdentity {
	return s.device
}

func (s *Session) State() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// Subscriptions returns the subscribed topics in lexical order.
func (s *Session) Subscriptions() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	topics := make([]string, 0, len(s.handlers))
	for topic := range s.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Subscribe registers handler for topic. Subscribing an already subscribed topic only swaps the handler.
func (s *Session) Subscribe(topic string, handler Handler) error {
	s.lock.Lock()
	if s.closing() {
		s.lock.Unlock()
		return ErrSessionClosed
	}
	if _, ok := s.handlers[topic]; ok {
		s.handlers[topic] = handler
		s.lock.Unlock()
		s.log.Debugf("replaced handler of %s", topic)
		return nil
	}
	// reserve the topic so a concurrent Subscribe only swaps the handler
	s.handlers[topic] = handler
	s.lock.Unlock()

	// not under lock: the broker may keep delivering while it acknowledges the subscription
	if err := s.messaging.OnMessage(s.msgChan, topic); err != nil {
		s.lock.Lock()
		delete(s.handlers, topic)
		s.lock.Unlock()
		return errors.Wrapf(err, "subscribe to %s", topic)
	}

	s.lock.Lock()
	if s.closing() {
		s.lock.Unlock()
		// Close may have run before the broker acknowledged the subscription
		if err := s.messaging.Unsubscribe(topic); err != nil {
			s.log.Debugf("unsubscribe from %s: %v", topic, err)
		}
		return ErrSessionClosed
	}
	s.state = entities.SessionSubscribed
	s.lock.Unlock()
	s.log.Infof("subscribed to %s", topic)
	return nil
}

// Publish sends payload to topic. With confirm it blocks until the broker acknowledges or the confirm timeout
// elapses (network.ErrPublishTimeout); without it the message may be lost if the connection drops before flushing.
func (s *Session) Publish(topic string, payload []byte, confirm bool) error {
	if s.isClosed() {
		return ErrSessionClosed
	}

	err := s.messaging.Publish(topic, payload, &network.MessageOptions{Confirm: confirm, Timeout: s.confirmTimeout})
	if errors.Is(err, network.ErrPublishTimeout) {
		metrics.PublishTimeouts.Inc()
	}
	if err != nil {
		return err
	}

	if confirm {
		s.log.Debugf("message on %s published successfully", topic)
	}
	return nil
}

// Close stops the delivery loop, unsubscribes every topic and closes the connection. Calling it again is a no-op.
// It must not be called from inside a Handler.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.lock.Lock()
		s.state = entities.SessionDisconnecting
		topics := make([]string, 0, len(s.handlers))
		for topic := range s.handlers {
			topics = append(topics, topic)
		}
		s.handlers = make(map[string]Handler)
		s.lock.Unlock()

		for _, topic := range topics {
			if unsubscribeErr := s.messaging.Unsubscribe(topic); unsubscribeErr != nil {
				s.log.Warnf("unsubscribe from %s: %v", topic, unsubscribeErr)
			}
		}

		close(s.done)
		<-s.loopDone

		err = s.messaging.Stop()
		s.setState(entities.SessionDisconnected)
		s.log.Info("session closed")
	})
	return err
}

func (s *Session) deliveryLoop() {
	defer close(s.loopDone)
	for {
		select {
		case <-s.done:
			return
		case message := <-s.msgChan:
			s.dispatch(message)
		}
	}
}

func (s *Session) dispatch(message network.InMsg) {
	s.lock.RLock()
	handler, ok := s.handlers[message.Topic]
	s.lock.RUnlock()
	if !ok {
		s.log.Debugf("no handler for %s, message dropped", message.Topic)
		return
	}

	if err := invoke(handler, message.Body); err != nil {
		if errors.Is(err, network.ErrMalformedPayload) {
			metrics.MessagesDiscarded.WithLabelValues(metrics.ReasonMalformed).Inc()
			s.log.Warnf("discarding message on %s: %v", message.Topic, err)
			return
		}
		metrics.HandlerFailures.Inc()
		s.log.Errorf("handler for %s failed: %v", message.Topic, err)
	}
}

// invoke turns a handler panic into an error so one bad message never stops delivery.
func invoke(handler Handler, payload []byte) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("handler panicked: %v", recovered)
		}
	}()
	return handler(payload)
}

func (s *Session) setState(state string) {
	s.lock.Lock()
	s.state = state
	s.lock.Unlock()
}

// closing must be called with lock held.
func (s *Session) closing() bool {
	return s.state == entities.SessionDisconnecting || s.state == entities.SessionDisconnected
}

func (s *Session) isClosed() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.closing()
}
