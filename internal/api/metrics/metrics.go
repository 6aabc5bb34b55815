// Package metrics defines the custom Prometheus metrics for the rcsnext
// CRM API. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// LoginsTotal counts login attempts by outcome and channel.
// Labels:
//   - result: "success", "invalid_credentials", "unverified", or "error"
//   - channel: "password" or "google"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result and channel.",
	},
	[]string{"result", "channel"},
)

// RegistrationsTotal counts registration attempts by outcome.
// Label:
//   - result: "success", "exists", "weak_password", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ResetRequestsTotal counts password-reset requests. Rate-limited
// attempts are counted separately so limiter tuning shows up here.
// Label:
//   - result: "accepted", "rate_limited", or "error"
var ResetRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_requests_total",
		Help:      "Total number of password-reset requests, by result.",
	},
	[]string{"result"},
)

// EmailsSentTotal counts outbound transactional emails.
// Labels:
//   - kind: "verification", "reset", or "confirmation"
//   - result: "sent" or "error"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of transactional emails attempted, by kind and result.",
	},
	[]string{"kind", "result"},
)

// MailQueueDepth tracks the number of emails waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of emails pending in each mail dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
