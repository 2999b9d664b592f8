// Package metrics defines the storefront domain metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Outcome label values.
const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"

	ResultOK      = "ok"
	ResultError   = "error"
	ResultMissing = "missing"
	ResultCorrupt = "corrupt"
)

// Prometheus metrics.
var (
	cartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Total number of cart mutations by operation",
		},
		[]string{"operation"},
	)

	chatReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_replies_total",
			Help:      "Total number of assistant replies by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of visitor sessions held in memory",
		},
	)

	persistWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_writes_total",
			Help:      "Total number of persisted record writes by record and result",
		},
		[]string{"record", "result"},
	)

	persistLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_loads_total",
			Help:      "Total number of persisted record loads by record and result",
		},
		[]string{"record", "result"},
	)

	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Number of open WebSocket connections",
		},
	)
)

// CartOperation counts a cart mutation.
func CartOperation(operation string) {
	cartOperations.WithLabelValues(operation).Inc()
}

// ChatReply counts an assistant reply.
func ChatReply(strategy string, matched bool) {
	outcome := OutcomeFallback
	if matched {
		outcome = OutcomeMatched
	}
	chatReplies.WithLabelValues(strategy, outcome).Inc()
}

// SessionOpened and SessionClosed track the in-memory session count.
func SessionOpened() { activeSessions.Inc() }

// SessionClosed decrements the in-memory session count.
func SessionClosed() { activeSessions.Dec() }

// PersistWrite counts a record write. result is ResultOK or ResultError.
func PersistWrite(record, result string) {
	persistWrites.WithLabelValues(record, result).Inc()
}

// PersistLoad counts a record load.
func PersistLoad(record, result string) {
	persistLoads.WithLabelValues(record, result).Inc()
}

// WebSocketConnected and WebSocketDisconnected track open connections.
func WebSocketConnected() { websocketConnections.Inc() }

// WebSocketDisconnected decrements the open connection count.
func WebSocketDisconnected() { websocketConnections.Dec() }
