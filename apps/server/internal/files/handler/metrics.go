package handler

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// metrics holds the OTel instruments the handlers record. Instruments come
// from the globally registered meter provider, so they are noops until
// platform/telemetry is initialised.
type metrics struct {
	uploads         metric.Int64Counter
	deletes         metric.Int64Counter
	archives        metric.Int64Counter
	archiveFailures metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter("shelf/handler")

	uploads, _ := meter.Int64Counter("shelf.uploads.total", //nolint:errcheck // instrument creation only fails on bad names
		metric.WithDescription("Completed upload requests, by outcome status"))
	deletes, _ := meter.Int64Counter("shelf.deletes.total", //nolint:errcheck
		metric.WithDescription("Completed delete requests"))
	archives, _ := meter.Int64Counter("shelf.archives.total", //nolint:errcheck
		metric.WithDescription("Completed archive downloads"))
	archiveFailures, _ := meter.Int64Counter("shelf.archive_failures.total", //nolint:errcheck
		metric.WithDescription("Archive downloads aborted by a retrieval failure"))

	return &metrics{
		uploads:         uploads,
		deletes:         deletes,
		archives:        archives,
		archiveFailures: archiveFailures,
	}
}
