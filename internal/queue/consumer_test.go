package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageAppendsLine(t *testing.T) {
	dir := t.TempDir()
	sink, err := OpenBookingLog(dir)
	require.NoError(t, err)

	body, err := json.Marshal(BookingCreatedEvent{
		BookingID:  "b-1",
		CustomerID: "cust-1",
		PickupDate: "2026-11-01",
		ItemCount:  1,
		TotalPrice: "20.00",
	})
	require.NoError(t, err)
	require.NoError(t, handleMessage(sink, body))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(filepath.Join(dir, "booking.log"))
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &line))
	assert.Equal(t, "b-1", line["booking_id"])
	assert.Equal(t, "20.00", line["total"])
	assert.Equal(t, "booking created", line["msg"])
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	sink, err := OpenBookingLog(t.TempDir())
	require.NoError(t, err)
	defer sink.Close()

	assert.Error(t, handleMessage(sink, []byte("not json")))
	assert.Error(t, handleMessage(sink, []byte(`{"customer_id":"x"}`)))
}
