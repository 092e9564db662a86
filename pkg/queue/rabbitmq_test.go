package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu         sync.Mutex
	published  []amqp.Publishing
	keys       []string
	deliveries chan amqp.Delivery
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, msg)
	f.keys = append(f.keys, exchange+"/"+key)
	return nil
}

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error {
	close(f.deliveries)
	return nil
}

type fakeAcknowledger struct {
	mu       sync.Mutex
	acks     []uint64
	nacks    []uint64
	requeues []bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks = append(a.acks, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks = append(a.nacks, tag)
	a.requeues = append(a.requeues, requeue)
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func newTestClient(ch *fakeChannel) *Client {
	return &Client{
		channel: ch,
		logger:  logger.NewWithWriters(io.Discard, io.Discard),
	}
}

func TestClient_Publish(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	client := newTestClient(ch)

	err := client.Publish(context.Background(), map[string]string{"type": "note.created"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "activity/activity", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &body))
	assert.Equal(t, "note.created", body["type"])
}

func TestClient_ConsumeAcksAndNacks(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery, 3)}
	client := newTestClient(ch)
	ack := &fakeAcknowledger{}

	handled := make(chan string, 3)
	handler := func(body []byte) error {
		handled <- string(body)
		switch string(body) {
		case "retry":
			return errors.New("database unavailable")
		case "garbage":
			return ErrMalformed
		}
		return nil
	}

	require.NoError(t, client.Consume(context.Background(), handler))

	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("ok")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("retry")}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("garbage")}

	for i := 0; i < 3; i++ {
		select {
		case <-handled:
		case <-time.After(2 * time.Second):
			t.Fatal("delivery was not handled")
		}
	}

	require.NoError(t, client.Close())

	ack.mu.Lock()
	defer ack.mu.Unlock()
	assert.Equal(t, []uint64{1}, ack.acks)
	assert.Equal(t, []uint64{2, 3}, ack.nacks)
	assert.Equal(t, []bool{true, false}, ack.requeues)
}
