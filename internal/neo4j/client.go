// Package neo4j implements the transport to the store's transactional HTTP
// endpoint. One request per logical operation: the ordered statement batch
// is executed server-side inside a single transaction, so a batch either
// lands whole or not at all. There is no persistent connection and no
// native transaction handle; credentials are supplied per call.
package neo4j

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/types"
)

// Statement is one declarative query plus its parameters, executed in array
// order within the batch's transaction.
type Statement struct {
	Statement  string         `json:"statement"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Credentials identify the target store for a single call.
type Credentials struct {
	URL      string `json:"url"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that the credentials can form a request.
func (c Credentials) Validate() error {
	if c.URL == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "store url is required")
	}
	if c.Database == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "store database is required")
	}
	return nil
}

// CommitURL returns the transactional endpoint for these credentials.
func (c Credentials) CommitURL() string {
	return fmt.Sprintf("%s/db/%s/tx/commit", strings.TrimRight(c.URL, "/"), c.Database)
}

// Client executes statement batches against the transactional endpoint.
// It is stateless between calls and safe for concurrent use.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a transport client. The underlying http.Client carries
// no timeout of its own; callers bound each call with a context deadline.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// NewClientWithHTTP creates a transport client over a caller-supplied
// http.Client. Used by tests and callers that need custom transports.
func NewClientWithHTTP(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

type requestBody struct {
	Statements []Statement `json:"statements"`
}

type responseBody struct {
	Results []wireResult `json:"results"`
	Errors  []StoreError `json:"errors"`
}

type wireResult struct {
	Columns []string    `json:"columns"`
	Data    []wireDatum `json:"data"`
}

type wireDatum struct {
	Row []any `json:"row"`
}

// StoreError is a query error reported by the store inside a 2xx response.
// Any reported error means the whole batch was rolled back.
type StoreError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Execute submits one statement batch and returns one Result per statement.
// Failure modes: a transport/HTTP error (STORE_REQUEST_FAILED or
// STORE_STATUS_ERROR with the status), or a store-reported query error
// (STORE_QUERY_FAILED carrying the store's payload). No retries; nothing is
// committed on failure.
func (c *Client) Execute(ctx context.Context, creds Credentials, statements []Statement) ([]Result, error) {
	if len(statements) == 0 {
		return nil, nil
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(requestBody{Statements: statements})
	if err != nil {
		return nil, types.WrapError(types.STORE_REQUEST_FAILED, "failed to encode statement batch", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.CommitURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, types.WrapError(types.STORE_REQUEST_FAILED, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if creds.Username != "" {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, types.WrapError(types.STORE_REQUEST_FAILED, "request to store failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.WrapError(types.STORE_REQUEST_FAILED, "failed to read store response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, types.NewError(types.STORE_STATUS_ERROR,
			fmt.Sprintf("store returned HTTP %d: %s", resp.StatusCode, truncate(string(body), 512)))
	}

	var parsed responseBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, types.WrapError(types.STORE_RESULT_MALFORMED, "failed to decode store response", err)
	}

	if len(parsed.Errors) > 0 {
		msgs := make([]string, len(parsed.Errors))
		for i, se := range parsed.Errors {
			msgs[i] = se.Error()
		}
		return nil, types.NewError(types.STORE_QUERY_FAILED,
			fmt.Sprintf("store rejected batch: %s", strings.Join(msgs, "; ")))
	}

	results := make([]Result, len(parsed.Results))
	for i, wr := range parsed.Results {
		results[i] = newResult(wr)
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
