package model

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "infitab_pages_fetched_total",
		Help: "Total row pages appended to the cache",
	})

	pageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "infitab_page_fetch_failures_total",
		Help: "Total row page fetches that failed",
	})

	rowInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "infitab_row_invalidations_total",
		Help: "Total row cache invalidations",
	})

	staleResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "infitab_stale_responses_total",
		Help: "Total page responses dropped because the cache was invalidated meanwhile",
	})

	rowsCached = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "infitab_rows_cached",
		Help: "Rows currently held by the cache",
	})

	fetchTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "infitab_fetch_triggers_total",
		Help: "Page fetches requested by the fetch controller by cause",
	}, []string{"cause"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "infitab_row_submissions_total",
		Help: "Add row submissions by outcome",
	}, []string{"outcome"})
)
