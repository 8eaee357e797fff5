package mock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nr6/internal/port"
)

func TestMockProvider(t *testing.T) {
	p := NewMockProvider("http://localhost:3000")
	id := uuid.New()

	sess, err := p.CreateCheckoutSession(context.Background(), port.CheckoutRequest{FilingID: id})

	require.NoError(t, err)
	assert.False(t, p.Live())
	assert.Equal(t, id.String(), sess.ID)
	assert.Equal(t, "http://localhost:3000/success?session_id="+id.String(), sess.URL)

	ev, err := p.ParseWebhook([]byte(`{}`), "")
	assert.NoError(t, err)
	assert.Nil(t, ev)
}
