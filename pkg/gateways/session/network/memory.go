package network

import (
	"sync"

	"github.com/pkg/errors"
)

// MemoryBroker routes messages between Memory clients of the same process. Delivery is synchronous and in publish
// order, which makes end-to-end behaviour deterministic in tests.
type MemoryBroker struct {
	lock    sync.RWMutex
	clients map[*Memory]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{clients: make(map[*Memory]struct{})}
}

// Client returns a new, not yet started, connection to the broker.
func (b *MemoryBroker) Client() *Memory {
	return &Memory{
		broker:        b,
		subscriptions: make(map[string]chan InMsg),
		stopped:       make(chan struct{}),
	}
}

func (b *MemoryBroker) attach(client *Memory) {
	b.lock.Lock()
	b.clients[client] = struct{}{}
	b.lock.Unlock()
}

func (b *MemoryBroker) detach(client *Memory) {
	b.lock.Lock()
	delete(b.clients, client)
	b.lock.Unlock()
}

func (b *MemoryBroker) route(message InMsg) {
	b.lock.RLock()
	clients := make([]*Memory, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}
	b.lock.RUnlock()

	for _, client := range clients {
		client.deliver(message)
	}
}

type Memory struct {
	broker        *MemoryBroker
	lock          sync.Mutex
	connected     bool
	subscriptions map[string]chan InMsg
	stopped       chan struct{}
	stopOnce      sync.Once
}

func (m *Memory) Start() error {
	select {
	case <-m.stopped:
		return errors.Wrap(ErrConnection, "client already stopped")
	default:
	}
	m.lock.Lock()
	m.connected = true
	m.lock.Unlock()
	m.broker.attach(m)
	return nil
}

func (m *Memory) Stop() error {
	m.stopOnce.Do(func() {
		m.broker.detach(m)
		m.lock.Lock()
		m.connected = false
		m.subscriptions = make(map[string]chan InMsg)
		m.lock.Unlock()
		close(m.stopped)
	})
	return nil
}

func (m *Memory) OnMessage(msgChan chan InMsg, topic string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if !m.connected {
		return ErrNotConnected
	}
	m.subscriptions[topic] = msgChan
	return nil
}

func (m *Memory) Unsubscribe(topic string) error {
	m.lock.Lock()
	delete(m.subscriptions, topic)
	m.lock.Unlock()
	return nil
}

func (m *Memory) Publish(topic string, body []byte, _ *MessageOptions) error {
	if !m.IsConnected() {
		return errors.Wrapf(ErrNotConnected, "publish to %s", topic)
	}
	payload := make([]byte, len(body))
	copy(payload, body)
	m.broker.route(InMsg{Topic: topic, Body: payload})
	return nil
}

func (m *Memory) IsConnected() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.connected
}

// Subscriptions lists the topics this client currently receives.
func (m *Memory) Subscriptions() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	topics := make([]string, 0, len(m.subscriptions))
	for topic := range m.subscriptions {
		topics = append(topics, topic)
	}
	return topics
}

func (m *Memory) deliver(message InMsg) {
	m.lock.Lock()
	msgChan, ok := m.subscriptions[message.Topic]
	m.lock.Unlock()
	if !ok {
		return
	}
	select {
	case msgChan <- message:
	case <-m.stopped:
	}
}
