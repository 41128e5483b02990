// Package metrics exposes Prometheus counters for the generation pipeline.
// Degraded (fallback) lesson generation is silent in the result schema, so
// these counters and the logs are the only place it is observable.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "course_jobs_submitted_total",
		Help: "The total number of submitted course generation jobs.",
	})

	JobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "course_jobs_finished_total",
		Help: "The total number of jobs that reached a terminal state.",
	}, []string{"status"}) // status: done, error

	LessonsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lessons_generated_total",
		Help: "The total number of generated lessons by generation mode.",
	}, []string{"mode"}) // mode: generated, fallback

	MediaAssets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_assets_generated_total",
		Help: "The total number of attempted media assets by outcome.",
	}, []string{"kind", "outcome"}) // kind: logo, banner; outcome: ok, failed

	SlidesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slides_rendered_total",
		Help: "The total number of slide images rendered.",
	})
)
