// Package metrics declares the custom Prometheus metrics of the social API.
// Every metric is registered with the default registry on package init via
// promauto, and is served next to the HTTP metrics on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "socialconnect"

// ── Accounts ─────────────────────────────────────────────────────────────────

// RegistrationsTotal counts successful sign-ups.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_email" or "invalid_credentials"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Content ──────────────────────────────────────────────────────────────────

// PostsCreatedTotal counts created posts.
// Label:
//   - image: "true" when the post carries an image
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
	[]string{"image"},
)

// PostsDeletedTotal counts posts removed by their owners.
var PostsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_deleted_total",
		Help:      "Total number of posts deleted.",
	},
)

// IdempotentReplaysTotal counts post creations answered from the idempotency store.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of post creations replayed from an Idempotency-Key.",
	},
)

// LikeTogglesTotal counts like toggles.
// Label:
//   - action: "like" or "unlike"
var LikeTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "like_toggles_total",
		Help:      "Total number of like toggles, by resulting action.",
	},
	[]string{"action"},
)

// CommentsTotal counts added comments.
var CommentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_total",
		Help:      "Total number of comments added.",
	},
)

// ── Activity dispatcher ──────────────────────────────────────────────────────

// ActivityQueueDepth tracks records waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity records pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts records discarded because a worker queue was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity records dropped on a full queue.",
	},
)

// ActivityProcessingDuration measures dequeue-to-persisted latency.
// Label:
//   - outcome: "ok" or "error"
var ActivityProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_processing_duration_seconds",
		Help:      "Duration of activity record persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
