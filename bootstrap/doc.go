// Package bootstrap runs seqkit binaries through one lifecycle: defaults
// and validation, logger, telemetry, OnStart hooks, configure callbacks,
// ready check, OnReady hooks, then either a blocking Run or a finite
// RunTask, and finally OnStop hooks with a telemetry flush.
package bootstrap
