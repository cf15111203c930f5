package common

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tunehub",
		Subsystem: "runner",
		Name:      "environment_builds_started_total",
		Help:      "Environment image builds submitted to argo.",
	})

	JobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tunehub",
		Subsystem: "runner",
		Name:      "train_jobs_started_total",
		Help:      "Distributed train jobs created as batch jobs.",
	})

	ServicesDeployed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tunehub",
		Subsystem: "runner",
		Name:      "inference_services_deployed_total",
		Help:      "Inference services created.",
	})

	WebhooksPushed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tunehub",
		Subsystem: "runner",
		Name:      "status_webhooks_pushed_total",
		Help:      "Status events successfully delivered to the api server.",
	})
)
