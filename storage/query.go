package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// QueryType selects which range form of a Request is populated.
type QueryType string

// supported query types; any other value is passed through to the executor
// unchanged, with no range populated
const (
	QueryTimeRange   QueryType = "TIME_RANGE"
	QuerySampleRange QueryType = "SAMPLE_RANGE"
)

// ResourceType names the historical record series a query runs against.
type ResourceType string

// record series known to the reference storage engine
const (
	ResourceProperty     ResourceType = "PROPERTY"
	ResourceEvent        ResourceType = "EVENT"
	ResourceNotification ResourceType = "NOTIFICATION"
)

// Request is a typed historical query. Exactly one of the two range forms is
// populated, selected by QueryType. The JSON field names are the wire format
// of the POST /storage/query body.
type Request struct {
	ResourceType     ResourceType `json:"resourceType"`
	QueryType        QueryType    `json:"queryType"`
	StartTimestampMs int64        `json:"startTimestampMs,omitempty"`
	EndTimestampMs   int64        `json:"endTimestampMs,omitempty"`
	StartIndex       int          `json:"startIndex,omitempty"`
	EndIndex         int          `json:"endIndex,omitempty"`
}

// ErrMalformed flags a query body that cannot be translated into a Request.
var ErrMalformed = errors.New("malformed query request")

// Translate parses a raw query body into a typed Request. The two mandatory
// fields are resourceType and queryType. Time range bounds default to 0 and
// the call-time clock, sample range bounds default to 0.
func Translate(rawBody []byte) (Request, error) {
	var raw struct {
		ResourceType     *ResourceType `json:"resourceType"`
		QueryType        *QueryType    `json:"queryType"`
		StartTimestampMs *int64        `json:"startTimestampMs"`
		EndTimestampMs   *int64        `json:"endTimestampMs"`
		StartIndex       *int          `json:"startIndex"`
		EndIndex         *int          `json:"endIndex"`
	}
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if raw.ResourceType == nil || raw.QueryType == nil {
		return Request{}, fmt.Errorf("%w: resourceType and queryType are required", ErrMalformed)
	}

	request := Request{
		ResourceType: *raw.ResourceType,
		QueryType:    *raw.QueryType,
	}
	switch request.QueryType {
	case QueryTimeRange:
		if raw.StartTimestampMs != nil {
			request.StartTimestampMs = *raw.StartTimestampMs
		}
		request.EndTimestampMs = time.Now().UnixMilli()
		if raw.EndTimestampMs != nil {
			request.EndTimestampMs = *raw.EndTimestampMs
		}
	case QuerySampleRange:
		if raw.StartIndex != nil {
			request.StartIndex = *raw.StartIndex
		}
		if raw.EndIndex != nil {
			request.EndIndex = *raw.EndIndex
		}
	}
	return request, nil
}

// Result is the outcome of a historical query. It is produced by the
// executor; the gateway only wraps it into a transport envelope.
type Result struct {
	Success bool          `json:"success"`
	Records []interface{} `json:"records"`
	Error   string        `json:"error,omitempty"`
}

// Failure builds an unsuccessful result with an error message.
func Failure(format string, args ...interface{}) Result {
	return Result{Success: false, Records: []interface{}{}, Error: fmt.Sprintf(format, args...)}
}
