package network

import (
	"fmt"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/sirupsen/logrus"
)

// Messaging is one broker connection. Implementations serialize writes internally, so Publish may be called
// concurrently from the main loop and from message handlers.
type Messaging interface {
	Start() error
	Stop() error
	OnMessage(msgChan chan InMsg, topic string) error
	Unsubscribe(topic string) error
	Publish(topic string, body []byte, options *MessageOptions) error
	IsConnected() bool
}

type InMsg struct {
	Topic string
	Body  []byte
}

// MessageOptions represents the message publishing options
type MessageOptions struct {
	// Confirm blocks the publisher until the broker acknowledges the message.
	Confirm bool
	// Timeout bounds a confirmed publish. Zero falls back to the transport default.
	Timeout time.Duration
}

// NewMessaging builds the transport selected by conf.Transport.
func NewMessaging(conf entities.BrokerConfig, clientName string, log *logrus.Entry) (Messaging, error) {
	switch conf.Transport {
	case entities.TransportMQTT:
		return NewMQTT(conf, clientName, log), nil
	case entities.TransportAMQP:
		return NewAMQP(conf, clientName, log), nil
	default:
		return nil, fmt.Errorf("unknown broker transport %q", conf.Transport)
	}
}

func confirmTimeout(options *MessageOptions, fallback time.Duration) time.Duration {
	if options != nil && options.Timeout > 0 {
		return options.Timeout
	}
	return fallback
}
