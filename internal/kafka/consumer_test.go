package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type recordingInvalidator struct {
	ids []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, id string) error {
	r.ids = append(r.ids, id)
	return nil
}

func TestHandleMessage(t *testing.T) {
	inv := &recordingInvalidator{}
	logger, _ := zap.NewDevelopment()
	c := &Consumer{cache: inv, logger: logger}

	msg := kafka.Message{
		Topic: "payments.changed",
		Value: []byte(`{"id": "txn_001", "change": "updated"}`),
	}
	if err := c.handleMessage(context.Background(), msg); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(inv.ids) != 1 || inv.ids[0] != "txn_001" {
		t.Errorf("expected invalidation for txn_001, got: %v", inv.ids)
	}
}

func TestHandleMessage_BadPayload(t *testing.T) {
	inv := &recordingInvalidator{}
	logger, _ := zap.NewDevelopment()
	c := &Consumer{cache: inv, logger: logger}

	msg := kafka.Message{Value: []byte(`not json`)}
	if err := c.handleMessage(context.Background(), msg); err == nil {
		t.Fatal("expected unmarshal error")
	}
	if len(inv.ids) != 0 {
		t.Errorf("expected no invalidation, got: %v", inv.ids)
	}
}
