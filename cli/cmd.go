package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	ufcli "github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/api/client"
	"github.com/Veric-Protocol/pbc-did-registry/node/repo"
)

var log = logging.Logger("cli")

const (
	metadataContext = "context"
	metadataTestAPI = "testnode-registry"

	// APIInfoEnv overrides the endpoint recorded in the repo.
	APIInfoEnv = "DIDREG_API_INFO"
)

// RepoFlag points at the repo of the node the cli talks to.
var RepoFlag = &ufcli.StringFlag{
	Name:    "repo",
	EnvVars: []string{"DIDREG_PATH"},
	Value:   repo.DefaultPath,
	Usage:   "path of the registry node repo",
}

var fromFlag = &ufcli.StringFlag{
	Name:     "from",
	Usage:    "address sending the message",
	Required: true,
}

// GetAPIEndpoint resolves the rpc url of the node, from the environment
// first and the repo second.
func GetAPIEndpoint(cctx *ufcli.Context) (string, error) {
	addr := os.Getenv(APIInfoEnv)
	if addr == "" {
		r, err := repo.NewFS(cctx.String(RepoFlag.Name))
		if err != nil {
			return "", err
		}
		addr, err = r.APIEndpoint()
		if err != nil {
			return "", xerrors.Errorf("failed to get api endpoint (%s): %w", cctx.String(RepoFlag.Name), err)
		}
	}

	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	if !strings.HasSuffix(addr, "/rpc/v0") {
		addr = strings.TrimSuffix(addr, "/") + "/rpc/v0"
	}
	return addr, nil
}

// GetRegistryAPI connects to the node. The returned closer must be called once
// the command is done with the api.
func GetRegistryAPI(cctx *ufcli.Context) (api.Registry, func(), error) {
	if tn, ok := cctx.App.Metadata[metadataTestAPI]; ok {
		return tn.(api.Registry), func() {}, nil
	}

	addr, err := GetAPIEndpoint(cctx)
	if err != nil {
		return nil, nil, err
	}

	a, closer, err := client.NewRegistryRPC(ReqContext(cctx), addr, http.Header{})
	if err != nil {
		return nil, nil, xerrors.Errorf("connecting to %s: %w", addr, err)
	}
	return a, func() { closer() }, nil
}

// ReqContext returns context for cli execution. Calling it for the first time
// installs SIGTERM handler that will close returned context.
// Not safe for concurrent execution.
func ReqContext(cctx *ufcli.Context) context.Context {
	if uctx, ok := cctx.App.Metadata[metadataContext]; ok {
		// unchecked cast as if something else is in there
		// it is crash worthy either way
		return uctx.(context.Context)
	}

	ctx, done := context.WithCancel(cctx.Context)
	sigChan := make(chan os.Signal, 2)
	go func() {
		<-sigChan
		done()
	}()
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	if cctx.App.Metadata == nil {
		cctx.App.Metadata = map[string]interface{}{}
	}
	cctx.App.Metadata[metadataContext] = ctx
	return ctx
}

var Commands = []*ufcli.Command{
	DIDCmd,
	StateCmd,
	VersionCmd,
}
