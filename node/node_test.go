package node_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/api/client"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
	"github.com/Veric-Protocol/pbc-did-registry/node"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
	"github.com/Veric-Protocol/pbc-did-registry/node/repo"
)

var (
	deployer = types.MustParseAddress("000000000000000000000000000000000000000001")
	alice    = types.MustParseAddress("000000000000000000000000000000000000000002")
	bob      = types.MustParseAddress("000000000000000000000000000000000000000003")
)

func startNode(t *testing.T, r repo.Repo, opts ...node.Option) api.Registry {
	t.Helper()
	ctx := context.Background()

	var reg api.Registry
	stop, err := node.New(ctx, append([]node.Option{node.Repo(r)}, append(opts, node.Registry(&reg))...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, stop(context.Background()))
	})
	require.NotNil(t, reg)
	return reg
}

func TestNodeRequiresDeployer(t *testing.T) {
	var reg api.Registry
	_, err := node.New(context.Background(), node.Repo(repo.NewMemory(nil)), node.Registry(&reg))
	require.Error(t, err)
}

func TestNodeDeployerOption(t *testing.T) {
	ctx := context.Background()

	reg := startNode(t, repo.NewMemory(nil), node.Deployer(deployer))
	head, err := reg.RegistryHead(ctx)
	require.NoError(t, err)
	require.Equal(t, deployer, head.Owner)
	require.Equal(t, uint64(0), head.Height)

	res, err := reg.RegistryRegisterDID(ctx, alice, "did:metablox:alice")
	require.NoError(t, err)
	require.True(t, res.Ok())
	require.Equal(t, uint64(1), res.Height)
}

func TestNodeRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultRegistry()
	cfg.Chain.Deployer = "not-an-address"

	var reg api.Registry
	_, err := node.New(context.Background(), node.Repo(repo.NewMemory(&repo.MemRepoOptions{Config: cfg})), node.Registry(&reg))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Chain.Deployer")
}

func TestDeployerNeedsConfig(t *testing.T) {
	var reg api.Registry
	_, err := node.New(context.Background(), node.Deployer(deployer), node.Repo(repo.NewMemory(nil)), node.Registry(&reg))
	require.Error(t, err)
}

func TestNodeRestartResumesHead(t *testing.T) {
	ctx := context.Background()

	r, err := repo.NewFS(t.TempDir())
	require.NoError(t, err)
	cfg := config.DefaultRegistry()
	cfg.Chain.Deployer = deployer.String()
	require.NoError(t, r.Init(cfg))

	var reg api.Registry
	stop, err := node.New(ctx, node.Repo(r), node.Registry(&reg))
	require.NoError(t, err)

	res, err := reg.RegistryRegisterDID(ctx, alice, "did:metablox:alice")
	require.NoError(t, err)
	require.True(t, res.Ok())
	before, err := reg.RegistryHead(ctx)
	require.NoError(t, err)
	require.NoError(t, stop(ctx))

	// a restarted node must not redeploy, even for another deployer
	reg = startNode(t, r, node.Deployer(bob))
	after, err := reg.RegistryHead(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Equal(t, deployer, after.Owner)

	ctl, err := reg.RegistryDidLookup(ctx, "did:metablox:alice")
	require.NoError(t, err)
	require.Equal(t, alice, ctl)
}

func TestRPCRoundTrip(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultRegistry()
	cfg.Chain.Deployer = deployer.String()
	r := repo.NewMemory(&repo.MemRepoOptions{Config: cfg})
	reg := startNode(t, r)

	ep, err := r.APIEndpoint()
	require.NoError(t, err)
	require.Equal(t, cfg.API.ListenAddress, ep)

	h, err := node.RegistryHandler(reg, cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	remote, closer, err := client.NewRegistryRPC(ctx, srv.URL+"/rpc/v0", http.Header{})
	require.NoError(t, err)
	defer closer()

	v, err := remote.Version(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, v.Version)

	did := "did:metablox:alice"
	res, err := remote.RegistryRegisterDID(ctx, alice, did)
	require.NoError(t, err)
	require.True(t, res.Ok(), res.Error)

	res, err = remote.RegistryAddDelegate(ctx, alice, did, bob, 3600)
	require.NoError(t, err)
	require.True(t, res.Ok(), res.Error)

	res, err = remote.RegistrySetAttribute(ctx, bob, did, []string{"k=v"})
	require.NoError(t, err)
	require.True(t, res.Ok(), res.Error)

	res, err = remote.RegistryChangeOwner(ctx, bob, did, bob)
	require.NoError(t, err)
	require.Equal(t, didregistry.ErrNotAuthorized, res.Receipt.ExitCode)
	require.Equal(t, "NotAuthorized", res.ExitName)

	ctl, err := remote.RegistryDidLookup(ctx, did)
	require.NoError(t, err)
	require.Equal(t, alice, ctl)

	attrs, err := remote.RegistryGetAttribute(ctx, did)
	require.NoError(t, err)
	require.Equal(t, []string{"k=v"}, attrs)

	_, err = remote.RegistryGetAttribute(ctx, "did:metablox:missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "DidNotFound")

	dels, err := remote.RegistryDelegates(ctx, did)
	require.NoError(t, err)
	require.Len(t, dels, 1)
	require.Equal(t, bob, dels[0].Delegate)

	n, err := remote.RegistryNonce(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)

	lookup, err := remote.RegistryMessage(ctx, res.Message)
	require.NoError(t, err)
	require.Equal(t, didregistry.Methods.ChangeOwner, lookup.Message.Method)
	require.Equal(t, didregistry.ErrNotAuthorized, lookup.Receipt.ExitCode)
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := node.NewRateLimiterHandler(ok, 0.001, 1)

	get := func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rpc/v0", nil))
		return rec.Code
	}
	require.Equal(t, http.StatusOK, get())
	require.Equal(t, http.StatusTooManyRequests, get())

	unlimited := node.NewRateLimiterHandler(ok, 0, 0)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		unlimited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestServeRPC(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	stop, addr, err := node.ServeRPC(h, "test", "127.0.0.1:0", time.Second)
	require.NoError(t, err)
	defer stop(context.Background()) //nolint:errcheck

	resp, err := http.Get("http://" + addr.String() + "/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPIListenAddressOption(t *testing.T) {
	r := repo.NewMemory(nil)
	startNode(t, r, node.Deployer(deployer), node.APIListenAddress("127.0.0.1:4321"))

	ep, err := r.APIEndpoint()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:4321", ep)
}
