package bootstrap

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
)

// RouteInfo is one HTTP route the application serves.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary collects what an application set up during startup.
type Summary struct {
	serviceName     string
	version         string
	environment     string
	startupDuration time.Duration
	routes          []RouteInfo
	queries         []string
	health          *observability.ServiceHealth
}

// NewSummary creates an empty startup summary.
func NewSummary(serviceName, version, environment string) *Summary {
	return &Summary{serviceName: serviceName, version: version, environment: environment}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// SetHealth records the result of the ready check.
func (s *Summary) SetHealth(h *observability.ServiceHealth) {
	s.health = h
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
}

// TrackQuery records a named query the application runs.
func (s *Summary) TrackQuery(name string) {
	s.queries = append(s.queries, name)
}

// Routes returns the tracked routes in registration order.
func (s *Summary) Routes() []RouteInfo {
	return s.routes
}

// Log writes the summary as one structured line.
func (s *Summary) Log(log *logger.Logger) {
	fields := map[string]interface{}{
		"service":     s.serviceName,
		"version":     s.version,
		"environment": s.environment,
		"startup_ms":  s.startupDuration.Milliseconds(),
		"routes":      len(s.routes),
		"queries":     len(s.queries),
	}
	if s.health != nil {
		fields["health"] = string(s.health.Status)
	}
	log.Info("Startup summary", fields)
}

// Render writes the summary as a tree for terminals.
func (s *Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "%s %s (%s) started in %.2fs\n", s.serviceName, s.version, s.environment, s.startupDuration.Seconds())

	if s.health != nil && len(s.health.Components) > 0 {
		fmt.Fprintf(w, "\nHealth: %s\n", s.health.Status)
		for i, h := range s.health.Components {
			line := fmt.Sprintf("%s %s", h.Name, h.Status)
			if h.Message != "" {
				line += ": " + h.Message
			}
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(s.health.Components)), line)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes\n")
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s\n", treePrefix(i, len(s.routes)), r.Method, r.Path)
		}
	}

	if len(s.queries) > 0 {
		fmt.Fprintf(w, "\nQueries: %s\n", strings.Join(s.queries, ", "))
	}
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
