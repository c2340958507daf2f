package node

import (
	"context"
	"net"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/api/client"
	"github.com/Veric-Protocol/pbc-did-registry/metrics"
	"github.com/Veric-Protocol/pbc-did-registry/metrics/proxy"
	"github.com/Veric-Protocol/pbc-did-registry/node/config"
)

var rpclog = logging.Logger("rpc")

// ServeRPC serves an HTTP handler over the supplied listen address. The
// returned address is the one actually bound, which differs from addr when
// it asks for port 0.
func ServeRPC(h http.Handler, id string, addr string, timeout time.Duration) (StopFunc, net.Addr, error) {
	// Start listening to the addr; if invalid or occupied, we will fail early.
	lst, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, xerrors.Errorf("could not listen: %w", err)
	}

	// Instantiate the server and start listening.
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: timeout,
		BaseContext: func(listener net.Listener) context.Context {
			ctx, _ := tag.New(context.Background(), tag.Upsert(metrics.APIInterface, id))
			return ctx
		},
	}

	go func() {
		err := srv.Serve(lst)
		if err != http.ErrServerClosed {
			rpclog.Warnf("rpc server failed: %s", err)
		}
	}()

	return srv.Shutdown, lst.Addr(), nil
}

// RegistryHandler returns a registry handler, to be mounted as-is on the server.
func RegistryHandler(a api.Registry, cfg *config.Registry, opts ...jsonrpc.ServerOption) (http.Handler, error) {
	m := mux.NewRouter()

	serveRpc := func(path string, hnd interface{}) {
		rpcServer := jsonrpc.NewServer(append(opts, jsonrpc.WithServerErrors(api.RPCErrors))...)
		rpcServer.Register(client.Namespace, hnd)
		m.Handle(path, rpcServer)
	}

	serveRpc("/rpc/v0", proxy.MetricedRegistryAPI(a))

	if cfg.Metrics.Enabled {
		registry := promclient.DefaultRegisterer.(*promclient.Registry)
		exporter, err := prometheus.NewExporter(prometheus.Options{
			Registry:  registry,
			Namespace: cfg.Metrics.Namespace,
		})
		if err != nil {
			return nil, err
		}
		m.Handle("/debug/metrics", exporter)
	}
	m.PathPrefix("/").Handler(http.DefaultServeMux)

	return NewRateLimiterHandler(m, cfg.API.RequestsPerSecond, cfg.API.Burst), nil
}

func NewRateLimiterHandler(handler http.Handler, perSecond float64, burst int) *RateLimiterHandler {
	return &RateLimiterHandler{
		handler: handler,
		limiter: limiterFromRateLimit(perSecond, burst),
	}
}

// RateLimiterHandler rejects requests over the configured rate with 429.
type RateLimiterHandler struct {
	handler http.Handler
	limiter *rate.Limiter
}

func (h RateLimiterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		stats.Record(r.Context(), metrics.RateLimitCount.M(1))
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}
	h.handler.ServeHTTP(w, r)
}

func limiterFromRateLimit(perSecond float64, burst int) *rate.Limiter {
	if perSecond == 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
