// Package observability provides OpenTelemetry tracing and metrics for seqkit.
//
// Setup:
//
//	shutdown, err := observability.Setup(ctx, &cfg.Observability, "seqquery", version, env)
//	defer shutdown(ctx)
//
// Query metrics:
//
//	qm, err := observability.NewQueryMetrics(observability.Meter())
//	qm.RecordTraversal(ctx, "top-customers", n, elapsed, err)
//
// Health:
//
//	health := observability.Check(ctx, "seqquery", version, store)
package observability
