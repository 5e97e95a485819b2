package ctl

import (
	"bytes"
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcker struct {
	acked []uint64
	err   error
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error {
	if a.err != nil {
		return a.err
	}
	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	return nil
}

func TestTailPrintsAndAcks(t *testing.T) {
	acker := &fakeAcker{}
	deliveries := make(chan amqp.Delivery, 2)
	deliveries <- amqp.Delivery{
		Acknowledger: acker,
		DeliveryTag:  1,
		RoutingKey:   "post.created",
		Body:         []byte(`{ "postId": "p1" }`),
	}
	deliveries <- amqp.Delivery{
		Acknowledger: acker,
		DeliveryTag:  2,
		RoutingKey:   "user.followed",
		Body:         []byte(`{"following": true}`),
	}
	close(deliveries)

	var out bytes.Buffer
	err := tail(context.Background(), &out, deliveries)
	assert.ErrorContains(t, err, "delivery channel closed")

	assert.Equal(t, "post.created {\"postId\":\"p1\"}\nuser.followed {\"following\":true}\n", out.String())
	assert.Equal(t, []uint64{1, 2}, acker.acked)
}

func TestTailStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, tail(ctx, &out, make(chan amqp.Delivery)))
	assert.Empty(t, out.String())
}

func TestTailFailsOnAckError(t *testing.T) {
	acker := &fakeAcker{err: errors.New("channel closed")}
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: acker, RoutingKey: "post.created", Body: []byte(`{}`)}

	var out bytes.Buffer
	err := tail(context.Background(), &out, deliveries)
	assert.ErrorContains(t, err, "failed to ack delivery")
}
