package kafka

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/vhi-dashboard/internal/domain"
)

type recordingWriter struct {
	batches [][]kafkago.Message
	err     error
	closed  bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, msgs)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestSerializeToMessage(t *testing.T) {
	builtAt := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	o := domain.WeeklyObservation{RegionID: 9, Year: 2020, Week: 14, VCI: 44.84, TCI: 31.37, VHI: 38.1}

	msg, err := serializeToMessage(o, builtAt)
	require.NoError(t, err)

	assert.Equal(t, []byte(o.Key()), msg.Key)
	assert.JSONEq(t, `{"region_id":9,"year":2020,"week":14,"vci":44.84,"tci":31.37,"vhi":38.1}`, string(msg.Value))

	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "9", headers["region_id"])
	assert.Equal(t, "2026-10-16T12:00:00Z", headers["built_at"])
}

func TestPublisher_Publish_Batches(t *testing.T) {
	obs := make([]domain.WeeklyObservation, batchSize+5)
	for i := range obs {
		obs[i] = domain.WeeklyObservation{RegionID: 1, Year: 1982 + i/52, Week: i%52 + 1, VHI: 40}
	}
	w := &recordingWriter{}
	p := &Publisher{writer: w, logger: slog.Default()}

	require.NoError(t, p.Publish(context.Background(), domain.NewDataset(obs)))
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], batchSize)
	assert.Len(t, w.batches[1], 5)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_Publish_WriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := &Publisher{writer: w, logger: slog.Default()}

	ds := domain.NewDataset([]domain.WeeklyObservation{{RegionID: 1, Year: 2020, Week: 1}})
	err := p.Publish(context.Background(), ds)
	assert.ErrorContains(t, err, "leader not available")
}

func TestPublisher_Publish_Empty(t *testing.T) {
	w := &recordingWriter{}
	p := &Publisher{writer: w, logger: slog.Default()}

	require.NoError(t, p.Publish(context.Background(), domain.NewDataset()))
	assert.Empty(t, w.batches)
}
