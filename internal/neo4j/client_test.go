package neo4j

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RSAC-Labs/Quantickle-sub006/internal/types"
)

func testCreds(url string) Credentials {
	return Credentials{URL: url, Database: "neo4j", Username: "neo4j", Password: "secret"}
}

func TestCredentials_CommitURL(t *testing.T) {
	creds := Credentials{URL: "http://db.example:7474/", Database: "graphs"}
	assert.Equal(t, "http://db.example:7474/db/graphs/tx/commit", creds.CommitURL())
}

func TestCredentials_Validate(t *testing.T) {
	assert.Error(t, Credentials{Database: "neo4j"}.Validate())
	assert.Error(t, Credentials{URL: "http://x"}.Validate())
	assert.NoError(t, Credentials{URL: "http://x", Database: "neo4j"}.Validate())
}

func TestClient_Execute_SendsBatchAndParsesResults(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody requestBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var ok bool
		gotUser, gotPass, ok = r.BasicAuth()
		require.True(t, ok)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"columns": ["name", "seq"], "data": [{"row": ["G1", 3]}, {"row": ["G2", 1]}]}
			],
			"errors": []
		}`))
	}))
	defer srv.Close()

	client := NewClient()
	statements := []Statement{
		{Statement: "MATCH (g:Graph) RETURN g.name AS name, g.saveSequence AS seq"},
		{Statement: "MATCH (n) RETURN n", Parameters: map[string]any{"x": 1}},
	}

	results, err := client.Execute(context.Background(), testCreds(srv.URL), statements)
	require.NoError(t, err)

	assert.Equal(t, "/db/neo4j/tx/commit", gotPath)
	assert.Equal(t, "neo4j", gotUser)
	assert.Equal(t, "secret", gotPass)
	require.Len(t, gotBody.Statements, 2)
	assert.Equal(t, statements[0].Statement, gotBody.Statements[0].Statement)

	require.Len(t, results, 1)
	assert.Equal(t, []string{"name", "seq"}, results[0].Columns)
	assert.Equal(t, "G1", results[0].StringAt(0, "name"))
	assert.Equal(t, int64(3), results[0].Int64At(0, "seq"))
	assert.Equal(t, "G2", results[0].StringAt(1, "name"))
}

func TestClient_Execute_EmptyBatchSkipsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an empty batch")
	}))
	defer srv.Close()

	results, err := NewClient().Execute(context.Background(), testCreds(srv.URL), nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestClient_Execute_NonOKStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient().Execute(context.Background(), testCreds(srv.URL),
		[]Statement{{Statement: "RETURN 1"}})
	require.Error(t, err)
	assert.Equal(t, types.STORE_STATUS_ERROR, types.CodeOf(err))
	assert.Contains(t, err.Error(), "401")
}

func TestClient_Execute_StoreErrorsFailWholeBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [],
			"errors": [{"code": "Neo.ClientError.Statement.SyntaxError", "message": "Invalid input"}]
		}`))
	}))
	defer srv.Close()

	_, err := NewClient().Execute(context.Background(), testCreds(srv.URL),
		[]Statement{{Statement: "NOT CYPHER"}})
	require.Error(t, err)
	assert.Equal(t, types.STORE_QUERY_FAILED, types.CodeOf(err))
	assert.Contains(t, err.Error(), "Neo.ClientError.Statement.SyntaxError")
}

func TestClient_Execute_ConnectionRefused(t *testing.T) {
	_, err := NewClient().Execute(context.Background(),
		testCreds("http://127.0.0.1:1"), []Statement{{Statement: "RETURN 1"}})
	require.Error(t, err)
	assert.Equal(t, types.STORE_REQUEST_FAILED, types.CodeOf(err))
}

func TestClient_Execute_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient().Execute(context.Background(), testCreds(srv.URL),
		[]Statement{{Statement: "RETURN 1"}})
	require.Error(t, err)
	assert.Equal(t, types.STORE_RESULT_MALFORMED, types.CodeOf(err))
}

func TestResult_Accessors(t *testing.T) {
	r := NewResult([]string{"s", "n", "m", "list"},
		[][]any{{"str", 2.0, map[string]any{"k": "v"}, []any{"a"}}})

	assert.Equal(t, "str", r.StringAt(0, "s"))
	assert.Equal(t, int64(2), r.Int64At(0, "n"))
	assert.Equal(t, map[string]any{"k": "v"}, r.MapAt(0, "m"))
	assert.Equal(t, []any{"a"}, r.SliceAt(0, "list"))

	_, ok := r.Get(0, "missing")
	assert.False(t, ok)
	_, ok = r.Get(5, "s")
	assert.False(t, ok)
	assert.Equal(t, "", r.StringAt(0, "n"))
}
