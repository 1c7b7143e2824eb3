package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/twinbridge/twinbridge/gateway"
	"github.com/twinbridge/twinbridge/storage"
)

type fakeExecutor struct {
	request  storage.Request
	result   storage.Result
	err      error
	statsErr error
}

func (e *fakeExecutor) ExecuteQuery(ctx context.Context, request storage.Request) (storage.Result, error) {
	e.request = request
	return e.result, e.err
}

func (e *fakeExecutor) Stats(ctx context.Context) (storage.Stats, error) {
	if e.statsErr != nil {
		return storage.Stats{}, e.statsErr
	}
	return storage.Stats{Series: []storage.SeriesStats{
		{Resource: "PROPERTY", Count: 42},
	}}, nil
}

// TestStorageQuery verifies translation and execution of a successful
// query
func TestStorageQuery(t *testing.T) {
	executor := &fakeExecutor{
		result: storage.Result{Success: true, Records: []interface{}{
			storage.PropertySample{Key: "temperature", Value: 21.0, Timestamp: 1000},
			storage.PropertySample{Key: "temperature", Value: 23.0, Timestamp: 2000},
		}},
	}
	_, cl := newTestGateway(t, &gateway.Builder{Storage: executor})

	var result storage.Result
	status, err := cl.RawPost("/storage/query", []byte(`{
		"resourceType": "PROPERTY",
		"queryType": "TIME_RANGE",
		"startTimestampMs": 500,
		"endTimestampMs": 2500
	}`), &result)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatal("expected status 200, got:", status)
	}
	if !result.Success || len(result.Records) != 2 {
		t.Fatal("unexpected result:", result)
	}
	if executor.request.ResourceType != storage.ResourceProperty ||
		executor.request.StartTimestampMs != 500 || executor.request.EndTimestampMs != 2500 {
		t.Fatal("executor received unexpected request:", executor.request)
	}
}

// TestStorageQueryFailure verifies the three error shapes: malformed body,
// unsuccessful result and executor error
func TestStorageQueryFailure(t *testing.T) {
	executor := &fakeExecutor{}
	_, cl := newTestGateway(t, &gateway.Builder{Storage: executor})

	// malformed body
	status, _ := cl.RawPost("/storage/query", []byte(`{"queryType": "TIME_RANGE"}`), nil)
	if status != http.StatusBadRequest {
		t.Fatal("malformed query must yield 400, got:", status)
	}

	// unsuccessful result
	executor.result = storage.Failure("unsupported resource type FOO")
	var result storage.Result
	status, _ = cl.RawPost("/storage/query", []byte(`{
		"resourceType": "FOO",
		"queryType": "TIME_RANGE"
	}`), &result)
	if status != http.StatusBadRequest {
		t.Fatal("unsuccessful result must yield 400, got:", status)
	}

	// executor error
	executor.err = errors.New("connection lost")
	status, _ = cl.RawPost("/storage/query", []byte(`{
		"resourceType": "PROPERTY",
		"queryType": "TIME_RANGE"
	}`), nil)
	if status != http.StatusInternalServerError {
		t.Fatal("executor error must yield 500, got:", status)
	}
}

// TestStorageStats verifies the /storage route with and without a bound
// executor
func TestStorageStats(t *testing.T) {
	executor := &fakeExecutor{}
	_, cl := newTestGateway(t, &gateway.Builder{Storage: executor})

	var stats storage.Stats
	if _, err := cl.RawGet("/storage", &stats); err != nil {
		t.Fatal(err)
	}
	if len(stats.Series) != 1 || stats.Series[0].Count != 42 {
		t.Fatal("unexpected stats:", stats)
	}

	executor.statsErr = errors.New("connection lost")
	status, _, err := cl.RawGetText("/storage")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotFound {
		t.Fatal("failing stats must yield 404, got:", status)
	}
}

// TestStorageNotAvailable verifies the /storage routes without a storage
// engine
func TestStorageNotAvailable(t *testing.T) {
	_, cl := newTestGateway(t, nil)

	status, _, err := cl.RawGetText("/storage")
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusNotFound {
		t.Fatal("expected status 404, got:", status)
	}

	status, _ = cl.RawPost("/storage/query", []byte(`{
		"resourceType": "PROPERTY",
		"queryType": "TIME_RANGE"
	}`), nil)
	if status != http.StatusNotFound {
		t.Fatal("expected status 404, got:", status)
	}
}
