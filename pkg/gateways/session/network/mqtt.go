package network

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	disconnectQuiesceMillis = 250
	defaultMQTTTimeout      = 5 * time.Second
)

// pahoClient is the part of mqtt.Client this transport relies on.
type pahoClient interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
}

type MQTT struct {
	client   pahoClient
	url      string
	qos      byte
	timeout  time.Duration
	stopped  chan struct{}
	stopOnce sync.Once
	log      *logrus.Entry
}

func NewMQTT(conf entities.BrokerConfig, clientName string, log *logrus.Entry) *MQTT {
	options := mqtt.NewClientOptions().
		AddBroker(conf.URL).
		SetClientID(clientName).
		SetKeepAlive(conf.KeepAlive).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetOrderMatters(true).
		SetConnectTimeout(conf.ConfirmTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Errorf("connection to %s lost: %v", conf.URL, err)
		})
	if conf.Username != "" {
		options.SetUsername(conf.Username)
		options.SetPassword(conf.Password)
	}

	return newMQTT(mqtt.NewClient(options), conf, log)
}

func newMQTT(client pahoClient, conf entities.BrokerConfig, log *logrus.Entry) *MQTT {
	timeout := conf.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultMQTTTimeout
	}
	return &MQTT{
		client:  client,
		url:     conf.URL,
		qos:     conf.QoS,
		timeout: timeout,
		stopped: make(chan struct{}),
		log:     log,
	}
}

func (m *MQTT) Start() error {
	token := m.client.Connect()
	if !token.WaitTimeout(m.timeout) {
		// paho keeps connecting in the background under the same client id unless told to stop
		m.Stop()
		return errors.Wrapf(ErrConnection, "connect to %s timed out", m.url)
	}
	if err := token.Error(); err != nil {
		m.Stop()
		return errors.Wrapf(ErrConnection, "connect to %s: %v", m.url, err)
	}
	return nil
}

// Stop disconnects even when the connection attempt is still pending, which aborts it.
func (m *MQTT) Stop() error {
	m.stopOnce.Do(func() {
		close(m.stopped)
		m.client.Disconnect(disconnectQuiesceMillis)
	})
	return nil
}

func (m *MQTT) OnMessage(msgChan chan InMsg, topic string) error {
	token := m.client.Subscribe(topic, m.qos, func(_ mqtt.Client, message mqtt.Message) {
		m.forward(msgChan, InMsg{Topic: message.Topic(), Body: message.Payload()})
	})
	return m.wait(token, "subscribe to "+topic)
}

func (m *MQTT) Unsubscribe(topic string) error {
	return m.wait(m.client.Unsubscribe(topic), "unsubscribe from "+topic)
}

func (m *MQTT) Publish(topic string, body []byte, options *MessageOptions) error {
	token := m.client.Publish(topic, m.qos, false, body)

	if options == nil || !options.Confirm {
		// fire and forget, but surface failures paho reports immediately (not connected)
		select {
		case <-token.Done():
			return wrapPublishError(token.Error(), topic)
		default:
			return nil
		}
	}

	if !token.WaitTimeout(confirmTimeout(options, m.timeout)) {
		return errors.Wrapf(ErrPublishTimeout, "publish to %s", topic)
	}
	return wrapPublishError(token.Error(), topic)
}

func (m *MQTT) IsConnected() bool {
	return m.client.IsConnected()
}

// forward hands a delivery to the session; it gives up once the transport is stopped so paho's router never blocks
// on a session that is gone.
func (m *MQTT) forward(msgChan chan InMsg, message InMsg) {
	select {
	case msgChan <- message:
	case <-m.stopped:
		m.log.Debugf("dropping message on %s after stop", message.Topic)
	}
}

func (m *MQTT) wait(token mqtt.Token, operation string) error {
	if !token.WaitTimeout(m.timeout) {
		return errors.Errorf("%s timed out", operation)
	}
	if err := token.Error(); err != nil {
		return errors.Wrap(err, operation)
	}
	return nil
}

func wrapPublishError(err error, topic string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mqtt.ErrNotConnected) {
		return errors.Wrapf(ErrNotConnected, "publish to %s", topic)
	}
	return errors.Wrapf(err, "publish to %s", topic)
}
