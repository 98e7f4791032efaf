// Package middleware provides ready made core.Middleware implementations.
//
// Middleware is passed to the ocean at construction time and wraps every
// object the ocean hands out:
//
//	reg := prometheus.NewRegistry()
//	schemas := middleware.NewSchemaMiddleware()
//	_ = middleware.RegisterType[ChatMessage](schemas, "chat")
//
//	o := uboot.New(func(o *uboot.Options) {
//	    o.Middleware = []core.Middleware{
//	        middleware.NewLoggingMiddleware(logger),
//	        middleware.NewMetricsMiddleware(promadapter.NewBusMetrics(reg)),
//	        schemas,
//	        middleware.NewTuneMiddleware(),
//	    }
//	})
//
// Middleware listed later wraps the result of the middleware listed before
// it, so the last entry is the outermost layer a caller talks to.
//
// Available middleware:
//   - FunctionMiddleware: plain functions per hook
//   - LoggingMiddleware: structured logs for deliveries, handlers and subscriptions
//   - MetricsMiddleware: records metrics.BusMetrics
//   - SchemaMiddleware: validates outgoing messages against a JSON Schema per channel
//   - TuneMiddleware: honours radio configuration keys such as "muted"
package middleware
