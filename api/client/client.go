package client

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/Veric-Protocol/pbc-did-registry/api"
)

// Namespace is the jsonrpc namespace the registry API is served under.
const Namespace = "DIDRegistry"

// NewRegistryRPC creates a new http jsonrpc client.
func NewRegistryRPC(ctx context.Context, addr string, requestHeader http.Header, opts ...jsonrpc.Option) (api.Registry, jsonrpc.ClientCloser, error) {
	var res api.RegistryStruct
	closer, err := jsonrpc.NewMergeClient(ctx, addr, Namespace,
		[]interface{}{
			&res.Internal,
		},
		requestHeader,
		append([]jsonrpc.Option{jsonrpc.WithErrors(api.RPCErrors)}, opts...)...,
	)

	return &res, closer, err
}
