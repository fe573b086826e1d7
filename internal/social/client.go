package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBody = 1 << 20

type apiResponse struct {
	StatusCode int
	Body       []byte
}

func (r apiResponse) ok() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// postJSON issues one JSON POST. Only transport failures are returned as
// errors; status handling is left to the caller.
func postJSON(ctx context.Context, client *http.Client, endpoint string, body any, header http.Header) (apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return apiResponse{}, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return apiResponse{}, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return apiResponse{}, fmt.Errorf("read response: %w", err)
	}
	return apiResponse{StatusCode: res.StatusCode, Body: data}, nil
}

// graphErrorMessage reads {"error":{"message":...}} from a Graph API body.
func graphErrorMessage(body []byte) string {
	var e struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error == nil || e.Error.Message == "" {
		return unknownError
	}
	return e.Error.Message
}

// twitterErrorMessage reads the problem-details "detail" field.
func twitterErrorMessage(body []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Detail == "" {
		return unknownError
	}
	return e.Detail
}

// graphID reads {"id": ...}. Graph ids are strings but tolerate numbers.
func graphID(body []byte) string {
	var r struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &r); err != nil || len(r.ID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(r.ID, &n); err == nil {
		return n.String()
	}
	return ""
}
