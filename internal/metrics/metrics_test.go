package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestChatReply(t *testing.T) {
	matched := testutil.ToFloat64(chatReplies.WithLabelValues("fuzzy", OutcomeMatched))
	fallback := testutil.ToFloat64(chatReplies.WithLabelValues("fuzzy", OutcomeFallback))

	ChatReply("fuzzy", true)
	ChatReply("fuzzy", false)
	ChatReply("fuzzy", false)

	assert.Equal(t, matched+1, testutil.ToFloat64(chatReplies.WithLabelValues("fuzzy", OutcomeMatched)))
	assert.Equal(t, fallback+2, testutil.ToFloat64(chatReplies.WithLabelValues("fuzzy", OutcomeFallback)))
}

func TestSessionGauge(t *testing.T) {
	before := testutil.ToFloat64(activeSessions)

	SessionOpened()
	SessionOpened()
	SessionClosed()

	assert.Equal(t, before+1, testutil.ToFloat64(activeSessions))
}

func TestCounters(t *testing.T) {
	cart := testutil.ToFloat64(cartOperations.WithLabelValues("add"))
	writes := testutil.ToFloat64(persistWrites.WithLabelValues("cart-storage", ResultError))
	loads := testutil.ToFloat64(persistLoads.WithLabelValues("user-storage", ResultCorrupt))
	ws := testutil.ToFloat64(websocketConnections)

	CartOperation("add")
	PersistWrite("cart-storage", ResultError)
	PersistLoad("user-storage", ResultCorrupt)
	WebSocketConnected()

	assert.Equal(t, cart+1, testutil.ToFloat64(cartOperations.WithLabelValues("add")))
	assert.Equal(t, writes+1, testutil.ToFloat64(persistWrites.WithLabelValues("cart-storage", ResultError)))
	assert.Equal(t, loads+1, testutil.ToFloat64(persistLoads.WithLabelValues("user-storage", ResultCorrupt)))
	assert.Equal(t, ws+1, testutil.ToFloat64(websocketConnections))

	WebSocketDisconnected()
	assert.Equal(t, ws, testutil.ToFloat64(websocketConnections))
}
