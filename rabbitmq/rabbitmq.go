package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/digikhata/khata.go/common"
	"github.com/getsentry/sentry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of heap memory.
// Instead of allocating new memory everytime we need to encode an event we
// reuse buffers from this buffer pool.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON  = "application/json"
	defaultHeartbeat = 10 * time.Second
	defaultLocale    = "en_US"
)

// SubscribeToEventsFunc hands the publisher a stream of ledger events plus a
// function to unsubscribe when the publisher shuts down.
type SubscribeToEventsFunc = func() (events chan common.TxEvent, unsubscribe func(), err error)

type Client interface {
	StartPublishTransactions(context.Context, SubscribeToEventsFunc) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	conn *amqp.Connection

	publishChannel *amqp.Channel

	logger *lecho.Logger

	txExchange string
}

type ClientOption = func(client *DefaultClient)

func WithTxExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.txExchange = exchange
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

// Dial sets up a connection to rabbitmq with a channel that is ready to publish
func Dial(uri string, options ...ClientOption) (Client, error) {
	conn, err := amqp.DialConfig(uri, amqp.Config{
		Heartbeat: defaultHeartbeat,
		Locale:    defaultLocale,
		Dial:      amqp.DefaultDial(time.Second * 3),
	})
	if err != nil {
		return nil, err
	}

	publishChannel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	client := &DefaultClient{
		conn:           conn,
		publishChannel: publishChannel,
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.conn.Close() }

func (client *DefaultClient) StartPublishTransactions(ctx context.Context, subscribeFunc SubscribeToEventsFunc) error {
	err := client.publishChannel.ExchangeDeclare(
		client.txExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting rabbitmq publisher")

	events, unsubscribe, err := subscribeFunc()
	if err != nil {
		return err
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case event := <-events:
			if err = client.publishToTxExchange(ctx, event); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishToTxExchange(ctx context.Context, event common.TxEvent) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	if err := json.NewEncoder(payload).Encode(event); err != nil {
		return err
	}

	key := fmt.Sprintf("ledger.%s", event.Type)

	err := client.publishChannel.PublishWithContext(ctx,
		client.txExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		captureErr(client.logger, err)
		return err
	}

	client.logger.Debugf("Successfully published transaction event %s for client %d", event.Type, event.Transaction.ClientID)

	return nil
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
