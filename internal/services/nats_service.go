package services

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

var nc *nats.Conn

// ConnectNATS initializes the NATS connection
func ConnectNATS(url string) (*nats.Conn, error) {
	var err error
	nc, err = nats.Connect(url,
		nats.MaxReconnects(-1), // retry forever
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to NATS at ", url)
	return nc, nil
}

// PublishEvent marshals a payload and sends it to a subject.
func PublishEvent(subject string, payload interface{}) error {
	if nc == nil || !nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return nc.Publish(subject, data)
}

// SubscribeNATS listens to a subject with a handler
func SubscribeNATS(subject string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if nc == nil || !nc.IsConnected() {
		return nil, nats.ErrConnectionClosed
	}
	return nc.Subscribe(subject, handler)
}

// CloseNATS closes the connection
func CloseNATS() {
	if nc != nil && nc.IsConnected() {
		nc.Close()
	}
}
