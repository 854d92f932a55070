// Package metrics defines and registers the custom Prometheus metrics of the
// travel story API. HTTP request metrics come from echoprometheus; this
// package only holds domain counters.
//
// All metrics register with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travelstory"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts registration and login outcomes.
// Labels:
//   - action: "register" or "login"
//   - result: "success", "conflict", "unknown_user", "bad_password"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Story metrics ─────────────────────────────────────────────────────────────

var StoriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stories_created_total",
		Help:      "Total number of travel stories created.",
	},
)

var StoriesDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stories_deleted_total",
		Help:      "Total number of travel stories deleted.",
	},
)

// StoryCacheRequestsTotal counts list-cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var StoryCacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "story_cache_requests_total",
		Help:      "Total number of story list cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Image metrics ─────────────────────────────────────────────────────────────

// ImageUploadsTotal counts upload attempts.
// Label:
//   - result: "success" or "error"
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of image uploads, by result.",
	},
	[]string{"result"},
)

// ImageCleanupTotal counts best-effort image deletions run after a story delete.
// Label:
//   - result: "deleted", "missing", "error" or "dropped"
var ImageCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_total",
		Help:      "Total number of background image cleanups, by result.",
	},
	[]string{"result"},
)

// ImageCleanupQueueDepth tracks pending cleanups per worker channel.
var ImageCleanupQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "image_cleanup_queue_depth",
		Help:      "Current number of image cleanups pending in each worker channel.",
	},
	[]string{"worker_id"},
)
