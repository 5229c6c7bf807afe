package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utxonode/utxo-exporter/pkg/rpc"
)

func TestCallSubmitsWellFormedRequest(t *testing.T) {
	type request struct {
		ID     string        `json:"id"`
		Method string        `json:"method"`
		Params []interface{} `json:"params"`
	}

	var received request

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "user", user)
			assert.Equal(t, "pass", pass)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			w.Write([]byte(`{"result": {"blocks": 123}, "error": null}`))
		},
	))
	defer server.Close()

	client, err := rpc.NewClient(server.URL, rpc.WithBasicAuth("user", "pass"))
	require.NoError(t, err)

	out := struct {
		Blocks int64 `json:"blocks"`
	}{}

	err = client.Call(
		context.Background(), "getblockstats",
		[]interface{}{"somehash", []string{"height"}}, &out,
	)
	require.NoError(t, err)

	assert.Equal(t, "getblockstats", received.Method)
	require.Len(t, received.Params, 2)
	assert.Equal(t, "somehash", received.Params[0])
	assert.Equal(t, int64(123), out.Blocks)
}

func TestTimeoutAppliesRegardlessOfOptionOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"result": 1, "error": null}`))
		},
	))
	defer server.Close()

	client, err := rpc.NewClient(server.URL,
		rpc.WithTimeout(20*time.Millisecond),
		rpc.WithHTTPClient(&http.Client{}),
	)
	require.NoError(t, err)

	err = client.Call(context.Background(), "uptime", nil, nil)
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindTransport, rpcErr.Kind)
}

func TestCallConnectionRefusedIsTransport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	client, err := rpc.NewClient(address)
	require.NoError(t, err)

	err = client.Call(context.Background(), "uptime", nil, nil)
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindTransport, rpcErr.Kind)
	assert.Equal(t, "uptime", rpcErr.Method)
	assert.True(t, rpcErr.Retryable())
}

func TestCallCredentialsRejectedIsAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	))
	defer server.Close()

	client, err := rpc.NewClient(server.URL, rpc.WithBasicAuth("user", "wrong"))
	require.NoError(t, err)

	err = client.Call(context.Background(), "getblockchaininfo", nil, nil)
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindAuth, rpcErr.Kind)
	assert.False(t, rpcErr.Retryable())
}

func TestCallRPCErrorObjectIsProtocol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			// a node still warming up answers like this.
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{
				"result": null,
				"error": {"code": -28, "message": "Loading block index..."}
			}`))
		},
	))
	defer server.Close()

	client, err := rpc.NewClient(server.URL)
	require.NoError(t, err)

	err = client.Call(context.Background(), "getblockchaininfo", nil, nil)
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindProtocol, rpcErr.Kind)
	assert.True(t, rpcErr.Retryable())

	var respErr *rpc.ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, -28, respErr.Code)
}

func TestCallNonJSONBodyIsProtocol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("definitely not json"))
		},
	))
	defer server.Close()

	client, err := rpc.NewClient(server.URL)
	require.NoError(t, err)

	err = client.Call(context.Background(), "getnettotals", nil, nil)
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindProtocol, rpcErr.Kind)
}

func TestCallSchemaMismatchIsProtocol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result": "a bare string", "error": null}`))
		},
	))
	defer server.Close()

	client, err := rpc.NewClient(server.URL)
	require.NoError(t, err)

	out := struct {
		Blocks int64 `json:"blocks"`
	}{}

	err = client.Call(context.Background(), "getblockchaininfo", nil, &out)
	require.Error(t, err)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindProtocol, rpcErr.Kind)
}
