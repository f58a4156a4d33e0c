package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func TestStreamNotifierPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	n := NewStreamNotifier(client, "test:notifications")
	err := n.Notify(context.Background(), Notification{
		RecipientID: "tenant-1",
		Kind:        KindAnnouncement,
		Title:       "Rental policy updated",
		Body:        "Please review the current house rules.",
		Metadata:    map[string]any{"property_id": "prop-1"},
	})
	require.NoError(t, err)

	entries, err := client.XRange(context.Background(), "test:notifications", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, ok := entries[0].Values["data"].(string)
	require.True(t, ok)

	var decoded Notification
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Equal(t, "tenant-1", decoded.RecipientID)
	require.Equal(t, KindAnnouncement, decoded.Kind)
	require.Equal(t, "prop-1", decoded.Metadata["property_id"])
}

func TestStreamNotifierDefaultStreamName(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	n := NewStreamNotifier(client, "")
	require.NoError(t, n.Notify(context.Background(), Notification{RecipientID: "tenant-1"}))

	count, err := client.XLen(context.Background(), "roomfindr:notifications").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
