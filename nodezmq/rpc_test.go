package nodezmq_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.gammaspectra.live/P2Pool/wallet-sync/nodezmq"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	spec.Run(t, "JSONRPC", func(t *testing.T, when spec.G, it spec.S) {
		var (
			ctx    = context.Background()
			client *nodezmq.Client
			err    error
		)

		it("errors when daemon down", func() {
			daemon := httptest.NewServer(http.HandlerFunc(nil))
			daemon.Close()

			client, err = nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			err = client.JSONRPC(ctx, "method", nil, nil)
			require.ErrorContains(t, err, "do:")
		})

		it("errors w/ non-2xx response", func() {
			handler := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500) }
			daemon := httptest.NewServer(http.HandlerFunc(handler))
			defer daemon.Close()

			client, err = nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			err = client.JSONRPC(ctx, "method", nil, nil)
			require.ErrorContains(t, err, "non-2xx status")
		})

		it("hits the jsonrpc endpoint", func() {
			var endpoint string
			handler := func(w http.ResponseWriter, r *http.Request) {
				endpoint = r.URL.Path
				fmt.Fprintln(w, `{"id":"0","jsonrpc":"2.0","result":{}}`)
			}
			daemon := httptest.NewServer(http.HandlerFunc(handler))
			defer daemon.Close()

			client, err = nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			require.NoError(t, client.JSONRPC(ctx, "method", nil, nil))
			require.Equal(t, nodezmq.EndpointJSONRPC, endpoint)
		})

		it("captures result", func() {
			handler := func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"id":"0", "jsonrpc":"2.0", "result": {"foo": "bar"}}`)
			}
			daemon := httptest.NewServer(http.HandlerFunc(handler))
			defer daemon.Close()

			client, err = nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			result := map[string]string{}
			require.NoError(t, client.JSONRPC(ctx, "method", nil, &result))
			require.Equal(t, map[string]string{"foo": "bar"}, result)
		})

		it("fails if rpc errored", func() {
			handler := func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"id":"0", "jsonrpc":"2.0", "error": {"code": -1, "message":"foo"}}`)
			}
			daemon := httptest.NewServer(http.HandlerFunc(handler))
			defer daemon.Close()

			client, err = nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			err = client.JSONRPC(ctx, "method", nil, &struct{}{})
			require.ErrorContains(t, err, "foo")
			require.ErrorContains(t, err, "-1")
		})
	}, spec.Report(report.Terminal{}))
}

func TestNode(t *testing.T) {
	spec.Run(t, "Node", func(t *testing.T, when spec.G, it spec.S) {
		it("caches global indices by tx hash", func() {
			calls := 0
			handler := func(w http.ResponseWriter, r *http.Request) {
				calls++
				fmt.Fprintln(w, `{"id":"0","jsonrpc":"2.0","result":{"o_indexes":[1,2,3],"status":"OK"}}`)
			}
			daemon := httptest.NewServer(http.HandlerFunc(handler))
			defer daemon.Close()

			client, err := nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			node := nodezmq.NewNode(client, 16)

			var hash [32]byte
			hash[0] = 1

			indices, err := node.GetTransactionOutsGlobalIndices(context.Background(), hash)
			require.NoError(t, err)
			require.Equal(t, []uint64{1, 2, 3}, indices)

			indices, err = node.GetTransactionOutsGlobalIndices(context.Background(), hash)
			require.NoError(t, err)
			require.Equal(t, []uint64{1, 2, 3}, indices)
			require.Equal(t, 1, calls)
		})

		it("errors on non-OK status", func() {
			handler := func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintln(w, `{"id":"0","jsonrpc":"2.0","result":{"o_indexes":[],"status":"FAILED"}}`)
			}
			daemon := httptest.NewServer(http.HandlerFunc(handler))
			defer daemon.Close()

			client, err := nodezmq.NewClient(daemon.URL, nodezmq.WithHTTPClient(daemon.Client()))
			require.NoError(t, err)

			node := nodezmq.NewNode(client, 16)

			var hash [32]byte
			_, err = node.GetTransactionOutsGlobalIndices(context.Background(), hash)
			require.ErrorContains(t, err, "FAILED")
		})
	}, spec.Report(report.Terminal{}))
}
