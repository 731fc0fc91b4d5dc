// Package server provides the gin-based HTTP server of seqkit services,
// served over HTTP/1.1 and cleartext HTTP/2.
//
// Every request passes through the middleware in server/middleware:
// panic recovery, request ids, CORS and request logging at the handler
// level, then a gin middleware that opens a trace span and records request
// metrics under the matched route.
//
// Handlers answer through RespondOK, RespondOKWithMeta and RespondWithError,
// which map AppErrors to their HTTP status and error body.
//
//	srv := server.New(cfg.Server, log, server.WithHTTPMetrics(m))
//	srv.RegisterSystemEndpoints("seqquery", store)
//	catalog.NewHandler(store).Register(srv.Engine())
//	if err := srv.Start(ctx); err != nil { ... }
//	defer srv.Shutdown(context.Background())
package server
