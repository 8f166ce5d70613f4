// Package metrics exposes the Prometheus instruments shared by the API
// server and the worker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScanOutcomes counts scan commits by outcome (success, duplicate,
	// not_found, dropped).
	ScanOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qwickattend_scan_outcomes_total",
		Help: "Scan commit results by outcome.",
	}, []string{"outcome"})

	// PersistFailures counts attendance writes that failed after the
	// optimistic cache update.
	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qwickattend_persist_failures_total",
		Help: "Asynchronous attendance writes that failed and were rolled back.",
	})

	// QRRenders counts QR credential images rendered by the worker.
	QRRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qwickattend_qr_renders_total",
		Help: "QR credential render jobs by result.",
	}, []string{"result"})

	// ImportedStudents counts students created through CSV import.
	ImportedStudents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qwickattend_imported_students_total",
		Help: "Students created via CSV import.",
	})
)
