package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraevents "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/events"
	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/events"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/hooks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

func newPublisher(t *testing.T) (*events.Publisher, *redis.Client, *telemetry.Metrics) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	metrics := telemetry.NewProvider(prometheus.NewRegistry()).Metrics
	return events.NewPublisher(client, infralogger.NewNop(), metrics), client, metrics
}

func readEvents(t *testing.T, client *redis.Client) []infraevents.RecordEvent {
	t.Helper()

	entries, err := client.XRange(context.Background(), infraevents.StreamName, "-", "+").Result()
	require.NoError(t, err)

	out := make([]infraevents.RecordEvent, 0, len(entries))
	for _, e := range entries {
		raw, ok := e.Values[infraevents.EventField].(string)
		require.True(t, ok)
		var ev infraevents.RecordEvent
		require.NoError(t, json.Unmarshal([]byte(raw), &ev))
		out = append(out, ev)
	}
	return out
}

func TestNewPublisher_NilClient(t *testing.T) {
	t.Parallel()

	pub := events.NewPublisher(nil, infralogger.NewNop(), nil)
	assert.Nil(t, pub)

	id, err := pub.Publish(context.Background(), infraevents.RecordEvent{})
	require.NoError(t, err)
	assert.Empty(t, id)
	pub.PublishAsync(infraevents.RecordEvent{})
}

func TestPublish_WritesEnvelope(t *testing.T) {
	t.Parallel()

	pub, client, metrics := newPublisher(t)

	id, err := pub.Publish(context.Background(), infraevents.RecordEvent{
		EventType: infraevents.RecordDuplicated,
		RecordID:  101,
		SourceID:  7,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got := readEvents(t, client)
	require.Len(t, got, 1)
	assert.Equal(t, infraevents.RecordDuplicated, got[0].EventType)
	assert.Equal(t, int64(101), got[0].RecordID)
	assert.NotZero(t, got[0].EventID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues(telemetry.OutcomeSuccess)), 0)
}

func TestAfterDuplicate_PublishesInBackground(t *testing.T) {
	t.Parallel()

	pub, client, _ := newPublisher(t)
	ctx := auth.WithPrincipal(context.Background(), auth.Principal{Subject: "42"})

	err := pub.AfterDuplicate(ctx, 101, 7, hooks.CopyContext{FromID: 7, ToID: 101, SourceType: "post", TargetType: "page"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(readEvents(t, client)) == 1 }, 2*time.Second, 10*time.Millisecond)

	ev := readEvents(t, client)[0]
	payload, ok := ev.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(7), ev.SourceID)
	assert.Equal(t, "page", payload["target_type"])
	assert.Equal(t, true, payload["is_transform"])
	assert.Equal(t, "42", payload["actor"])
}
