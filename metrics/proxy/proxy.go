package proxy

import (
	"context"
	"reflect"

	"go.opencensus.io/tag"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/metrics"
)

// MetricedRegistryAPI wraps a so every call records its duration tagged with
// the method name.
func MetricedRegistryAPI(a api.Registry) api.Registry {
	var out api.RegistryStruct
	proxy(a, &out.Internal)
	return &out
}

func proxy(in interface{}, outstr interface{}) {
	outs := reflect.ValueOf(outstr).Elem()
	v := reflect.ValueOf(in)

	for f := 0; f < outs.NumField(); f++ {
		field := outs.Type().Field(f)
		fn := v.MethodByName(field.Name)

		outs.Field(f).Set(reflect.MakeFunc(field.Type, func(args []reflect.Value) (results []reflect.Value) {
			ctx := args[0].Interface().(context.Context)
			// upsert function name into context
			ctx, _ = tag.New(ctx, tag.Upsert(metrics.Endpoint, field.Name), tag.Upsert(metrics.APIInterface, "Registry"))
			stop := metrics.Timer(ctx, metrics.APIRequestDuration)
			defer stop()
			// pass tagged ctx back into function call
			args[0] = reflect.ValueOf(ctx)
			return fn.Call(args)
		}))
	}
}
