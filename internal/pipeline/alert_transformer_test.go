package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Beastbaba/Gateguide/pkg/assist"
)

func TestAlertTransformer(t *testing.T) {
	ctx := context.Background()

	t.Run("valid alert", func(t *testing.T) {
		msg := &Message{
			ID:      "msg-1",
			Payload: []byte(`{"flight_number":"AI 202","status":"Gate Changed","gate":"C5","previous_gate":"B14"}`),
		}

		alert, skip, err := AlertTransformer(ctx, msg)
		require.NoError(t, err)
		assert.False(t, skip)
		require.NotNil(t, alert)
		assert.Equal(t, "AI 202", alert.FlightNumber)
		assert.Equal(t, assist.StatusGateChanged, alert.Status)
		assert.Equal(t, "C5", alert.Gate)
		assert.Equal(t, "B14", alert.PreviousGate)
	})

	t.Run("malformed payload is skipped", func(t *testing.T) {
		msg := &Message{ID: "msg-2", Payload: []byte("not json")}

		alert, skip, err := AlertTransformer(ctx, msg)
		require.Error(t, err)
		assert.True(t, skip)
		assert.Nil(t, alert)
	})

	t.Run("missing flight number is skipped", func(t *testing.T) {
		msg := &Message{ID: "msg-3", Payload: []byte(`{"status":"Delayed"}`)}

		_, skip, err := AlertTransformer(ctx, msg)
		require.Error(t, err)
		assert.True(t, skip)
	})

	t.Run("unknown status is skipped", func(t *testing.T) {
		msg := &Message{ID: "msg-4", Payload: []byte(`{"flight_number":"EK 505","status":"Vanished"}`)}

		_, skip, err := AlertTransformer(ctx, msg)
		require.Error(t, err)
		assert.True(t, skip)
	})
}
