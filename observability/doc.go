// Package observability wires OpenTelemetry tracing and metrics for cmdutil.
//
// The process package always records spans and instruments through the
// global otel providers, which are no-ops until Setup installs real ones:
//
//	shutdown, err := observability.Setup(ctx, cfg, "cmdutil", version)
//	defer shutdown(ctx)
package observability
