package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	rpcmetrics "github.com/filecoin-project/go-jsonrpc/metrics"
)

// Distributions
var defaultMillisecondsDistribution = view.Distribution(
	0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, // Very short intervals for fast operations
	10, 20, 30, 40, 50, 60, 70, 80, 90, 100, // 10 ms intervals up to 100 ms
	150, 200, 250, 300, 350, 400, 450, 500, // 50 ms intervals from 100 to 500 ms
	600, 700, 800, 900, 1000, // 100 ms intervals from 500 to 1000 ms
	2000, 3000, 4000, 5000, 10000,
)

var blockCountDistribution = view.Distribution(0, 1, 2, 3, 5, 7, 10, 15, 25, 50, 100)

// Tags
var (
	// common
	Version, _  = tag.NewKey("version")
	Commit, _   = tag.NewKey("commit")
	NodeType, _ = tag.NewKey("node_type")

	Endpoint, _     = tag.NewKey("endpoint")
	APIInterface, _ = tag.NewKey("api")

	// registry
	MethodName, _ = tag.NewKey("method_name")
	ExitCode, _   = tag.NewKey("exit_code")
	Outcome, _    = tag.NewKey("outcome")
)

// Measures
var (
	// common
	RegistryInfo       = stats.Int64("info", "Arbitrary counter to tag registry node info to", stats.UnitDimensionless)
	APIRequestDuration = stats.Float64("api/request_duration_ms", "Duration of API requests", stats.UnitMilliseconds)
	RateLimitCount     = stats.Int64("ratelimit/limited", "rate limited requests", stats.UnitDimensionless)

	// vm
	VMApplied       = stats.Int64("vm/applied", "Counter for messages applied to the registry", stats.UnitDimensionless)
	VMApplyDuration = stats.Float64("vm/apply_ms", "Time spent applying a single message", stats.UnitMilliseconds)
	VMFlushBlocks   = stats.Int64("vm/flush_blocks", "Number of blocks written by a successful apply", stats.UnitDimensionless)

	// store
	HeadEpoch = stats.Int64("registry/head_epoch", "Epoch of the last applied message", stats.UnitDimensionless)
)

var (
	InfoView = &view.View{
		Name:        "info",
		Description: "Registry node information",
		Measure:     RegistryInfo,
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{Version, Commit, NodeType},
	}
	APIRequestDurationView = &view.View{
		Measure:     APIRequestDuration,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{APIInterface, Endpoint},
	}
	RateLimitedView = &view.View{
		Measure:     RateLimitCount,
		Aggregation: view.Count(),
	}
	VMAppliedView = &view.View{
		Measure:     VMApplied,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{MethodName, ExitCode, Outcome},
	}
	VMApplyDurationView = &view.View{
		Measure:     VMApplyDuration,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{MethodName},
	}
	VMFlushBlocksView = &view.View{
		Measure:     VMFlushBlocks,
		Aggregation: blockCountDistribution,
	}
	HeadEpochView = &view.View{
		Measure:     HeadEpoch,
		Aggregation: view.LastValue(),
	}
)

var views = []*view.View{
	InfoView,
	APIRequestDurationView,
	RateLimitedView,
	VMAppliedView,
	VMApplyDurationView,
	VMFlushBlocksView,
	HeadEpochView,
}

// DefaultViews is an array of OpenCensus views for metric gathering purposes
var DefaultViews = func() []*view.View {
	return views
}()

// RegisterViews adds views to the default list without modifying this file.
func RegisterViews(v ...*view.View) {
	views = append(views, v...)
	DefaultViews = views
}

func init() {
	RegisterViews(rpcmetrics.DefaultViews...)
}

// SinceInMilliseconds returns the duration of time since the provide time as a float64.
func SinceInMilliseconds(startTime time.Time) float64 {
	return float64(time.Since(startTime).Microseconds()) / 1000
}

// Timer is a function stopwatch, calling it starts the timer,
// calling the returned function will record the duration.
func Timer(ctx context.Context, m *stats.Float64Measure) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		stats.Record(ctx, m.M(SinceInMilliseconds(start)))
		return time.Since(start)
	}
}
