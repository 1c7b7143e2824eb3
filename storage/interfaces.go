package storage

import (
	"context"

	"github.com/twinbridge/twinbridge/twin"
)

// Executor runs historical queries against the twin's storage engine. The
// gateway passes the request context through unchanged and imposes no
// timeout of its own; a slow executor stalls only the serving request.
type Executor interface {
	ExecuteQuery(ctx context.Context, request Request) (Result, error)
	Stats(ctx context.Context) (Stats, error)
}

// Recorder persists twin history as it is pushed from the engine. The
// gateway core does not record anything itself; recording is wired next to
// the gateway by the service that owns both.
type Recorder interface {
	RecordSnapshot(ctx context.Context, snapshot *twin.Snapshot) error
	RecordNotification(ctx context.Context, notification twin.EventNotification) error
}

// SeriesStats describes one stored record series.
type SeriesStats struct {
	Resource     string  `json:"resource"`
	Count        int64   `json:"count"`
	SizeMB       float64 `json:"size_mb"`
	AverageSizeB float64 `json:"average_size_b"`
}

// Stats summarizes the storage engine contents.
type Stats struct {
	Series []SeriesStats `json:"series"`
}

// PropertySample is one stored historical value of a twin property.
type PropertySample struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	Timestamp int64       `json:"timestamp"`
}

// EventSample is one stored event notification.
type EventSample struct {
	Key       string      `json:"key"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}
