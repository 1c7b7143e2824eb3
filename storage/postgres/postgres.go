/*
Package postgres provides a storage engine for twin history on a postgres
database. It records property values and event notifications as they are
pushed from the engine and serves the typed historical queries of the
gateway's /storage routes.
*/
package postgres

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/twinbridge/twinbridge/core/csql"
	"github.com/twinbridge/twinbridge/storage"
	"github.com/twinbridge/twinbridge/twin"
)

// Store records and queries twin history in two append-only tables, one for
// property values and one for event notifications. Rows are never updated
// or deleted; the serial column gives every series a stable sample order.
type Store struct {
	db *csql.DB
}

// New creates the storage tables in the database's schema if they do not
// exist yet and returns the store.
func New(db *csql.DB) (*Store, error) {
	_, err := db.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s."_property_history_" (
serial SERIAL PRIMARY KEY,
key varchar NOT NULL,
value json NOT NULL,
timestamp_ms bigint NOT NULL
);
CREATE TABLE IF NOT EXISTS %s."_notification_history_" (
serial SERIAL PRIMARY KEY,
key varchar NOT NULL,
payload json NOT NULL,
timestamp_ms bigint NOT NULL
);`, db.Schema, db.Schema))
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// RecordSnapshot appends one row per property of the snapshot, all stamped
// with the snapshot's evaluation instant.
func (s *Store) RecordSnapshot(ctx context.Context, snapshot *twin.Snapshot) error {
	if snapshot == nil {
		return nil
	}
	timestamp := snapshot.EvaluatedAt().UnixMilli()
	for _, property := range snapshot.Properties() {
		value, err := json.Marshal(property.Value)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, fmt.Sprintf(
			`INSERT INTO %s."_property_history_" (key, value, timestamp_ms) VALUES ($1, $2, $3);`,
			s.db.Schema), property.Key, string(value), timestamp)
		if err != nil {
			return err
		}
	}
	return nil
}

// RecordNotification appends one event notification row.
func (s *Store) RecordNotification(ctx context.Context, notification twin.EventNotification) error {
	payload, err := json.Marshal(notification.Payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s."_notification_history_" (key, payload, timestamp_ms) VALUES ($1, $2, $3);`,
		s.db.Schema), notification.Key, string(payload), notification.Timestamp)
	return err
}

// ExecuteQuery runs a typed historical query. Requests for unsupported
// resource or query types produce an unsuccessful result, not an error;
// errors are reserved for the database itself failing.
func (s *Store) ExecuteQuery(ctx context.Context, request storage.Request) (storage.Result, error) {
	var table, payloadColumn string
	switch request.ResourceType {
	case storage.ResourceProperty:
		table, payloadColumn = `"_property_history_"`, "value"
	case storage.ResourceEvent, storage.ResourceNotification:
		table, payloadColumn = `"_notification_history_"`, "payload"
	default:
		return storage.Failure("unsupported resource type %s", request.ResourceType), nil
	}

	var query string
	var args []interface{}
	switch request.QueryType {
	case storage.QueryTimeRange:
		query = fmt.Sprintf(
			`SELECT key, %s, timestamp_ms FROM %s.%s WHERE timestamp_ms BETWEEN $1 AND $2 ORDER BY serial;`,
			payloadColumn, s.db.Schema, table)
		args = []interface{}{request.StartTimestampMs, request.EndTimestampMs}
	case storage.QuerySampleRange:
		if request.EndIndex < request.StartIndex {
			return storage.Failure("invalid sample range [%d,%d]", request.StartIndex, request.EndIndex), nil
		}
		query = fmt.Sprintf(
			`SELECT key, %s, timestamp_ms FROM %s.%s ORDER BY serial OFFSET $1 LIMIT $2;`,
			payloadColumn, s.db.Schema, table)
		args = []interface{}{request.StartIndex, request.EndIndex - request.StartIndex + 1}
	default:
		return storage.Failure("unsupported query type %s", request.QueryType), nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.Result{}, err
	}
	defer rows.Close()

	records := []interface{}{}
	for rows.Next() {
		var key string
		var payload []byte
		var timestamp int64
		if err := rows.Scan(&key, &payload, &timestamp); err != nil {
			return storage.Result{}, err
		}
		var value interface{}
		if err := json.Unmarshal(payload, &value); err != nil {
			return storage.Result{}, err
		}
		if request.ResourceType == storage.ResourceProperty {
			records = append(records, storage.PropertySample{Key: key, Value: value, Timestamp: timestamp})
		} else {
			records = append(records, storage.EventSample{Key: key, Payload: value, Timestamp: timestamp})
		}
	}
	if err := rows.Err(); err != nil {
		return storage.Result{}, err
	}
	return storage.Result{Success: true, Records: records}, nil
}

// Stats reports row count and approximate sizes for both record series.
func (s *Store) Stats(ctx context.Context) (storage.Stats, error) {
	stats := storage.Stats{Series: []storage.SeriesStats{}}
	for _, series := range []struct {
		resource string
		table    string
	}{
		{string(storage.ResourceProperty), "_property_history_"},
		{string(storage.ResourceNotification), "_notification_history_"},
	} {
		var count, size int64
		err := s.db.QueryRowContext(ctx, fmt.Sprintf(
			`SELECT count(*), pg_total_relation_size('%s."%s"') FROM %s."%s";`,
			s.db.Schema, series.table, s.db.Schema, series.table)).Scan(&count, &size)
		if err != nil {
			return storage.Stats{}, err
		}
		one := storage.SeriesStats{
			Resource: series.resource,
			Count:    count,
			SizeMB:   float64(size) / 1024.0 / 1024.0,
		}
		if count > 0 {
			one.AverageSizeB = float64(size) / float64(count)
		}
		stats.Series = append(stats.Series, one)
	}
	return stats, nil
}
