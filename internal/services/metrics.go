package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attachment_uploads_total",
		Help: "Attachment uploads by outcome.",
	}, []string{"outcome"})

	UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attachment_upload_bytes_total",
		Help: "Total bytes uploaded to object storage.",
	})

	ScanResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attachment_scan_results_total",
		Help: "Receipt scan results by status.",
	}, []string{"status"})
)
