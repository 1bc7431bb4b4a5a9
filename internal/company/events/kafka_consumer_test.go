package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReader struct {
	committed []kafka.Message
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestConsumerHandleCommitsAfterHandler(t *testing.T) {
	reader := &fakeReader{}
	c := &Consumer{reader: reader, logger: zaptest.NewLogger(t)}
	companyID := uuid.New()

	var got Event
	c.RegisterHandler(func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	c.handle(context.Background(), kafka.Message{Value: mustMarshal(Event{Type: ProjectCompleted, CompanyID: companyID})})

	assert.Equal(t, ProjectCompleted, got.Type)
	assert.Equal(t, companyID, got.CompanyID)
	require.Len(t, reader.committed, 1)
}

func TestConsumerHandleSkipsBadMessages(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	reader := &fakeReader{}
	c := &Consumer{reader: reader, logger: zap.New(core)}
	c.RegisterHandler(func(context.Context, Event) error { return errors.New("boom") })

	c.handle(context.Background(), kafka.Message{Value: []byte("{not json")})
	c.handle(context.Background(), kafka.Message{Value: mustMarshal(Event{Type: EmployeeFired})})

	assert.Equal(t, 1, recorded.FilterMessage("Failed to parse event").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Failed to handle event").Len())
	assert.Empty(t, reader.committed, "rejected messages are not committed")
}

func TestConsumerStopsWithContext(t *testing.T) {
	reader := &fakeReader{}
	c := &Consumer{reader: reader, logger: zaptest.NewLogger(t)}

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	cancel()
	c.Close()

	assert.True(t, reader.closed)
}

func TestEventDecodePayload(t *testing.T) {
	companyID := uuid.New()
	sent := models.PaymentEvent{
		ProjectID: uuid.New(),
		CompanyID: companyID,
		Amount:    decimal.RequireFromString("1234.5"),
	}

	var received Event
	require.NoError(t, json.Unmarshal(mustMarshal(Event{Type: ProjectPaid, CompanyID: companyID, Payload: sent}), &received))

	var got models.PaymentEvent
	require.NoError(t, received.DecodePayload(&got))
	assert.Equal(t, sent.ProjectID, got.ProjectID)
	assert.Equal(t, "1234.5", got.Amount.String())
}
