package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/backend/internal/domain/integration"
)

func TestEventSerializer_RoundTripOrderImported(t *testing.T) {
	s := NewDefaultSerializer()
	original := newOrderImported(t, 5150)

	data, err := s.Serialize(original)
	require.NoError(t, err)

	decoded, err := s.Deserialize(integration.EventTypeOrderImported, data)
	require.NoError(t, err)

	got, ok := decoded.(*integration.OrderImportedEvent)
	require.True(t, ok)
	assert.Equal(t, original.EventID(), got.EventID())
	assert.Equal(t, original.AggregateID(), got.AggregateID())
	assert.Equal(t, int64(5150), got.ChannableID)
	assert.True(t, original.Subtotal.Equal(got.Subtotal))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "MUG", got.Lines[0].SKU)
}

func TestEventSerializer_UnknownType(t *testing.T) {
	_, err := NewEventSerializer().Deserialize("Nope", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_BadPayload(t *testing.T) {
	_, err := NewDefaultSerializer().Deserialize(integration.EventTypeOrderImported, []byte(`{"lines":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal event")
}

func TestEventSerializer_RegisteredTypes(t *testing.T) {
	s := NewDefaultSerializer()
	s.Register("Zeta", &testEvent{})
	s.Register("Alpha", &testEvent{})

	assert.Equal(t, []string{"Alpha", integration.EventTypeOrderImported, "Zeta"}, s.RegisteredTypes())
}
