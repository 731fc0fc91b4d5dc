// Package logger provides structured logging for seqkit using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and trace/request correlation pulled from a context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  slow_query_ms: 250
//
// # Usage
//
//	log := logger.Get("catalog")
//	log.Info("report built", logger.Fields("query", "top-customers", "elements", 5))
package logger
