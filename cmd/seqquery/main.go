// Command seqquery serves the product catalog queries over HTTP, or runs
// the catalog reports once and prints them as JSON.
//
//	seqquery [flags] [serve|report]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kbukum/seqkit/bootstrap"
	"github.com/kbukum/seqkit/catalog"
	"github.com/kbukum/seqkit/config"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/query"
	"github.com/kbukum/seqkit/server"
	"github.com/kbukum/seqkit/validation"
	"github.com/kbukum/seqkit/version"
)

const serviceName = "seqquery"

// Config is the seqquery configuration file.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Server               server.Config `yaml:"server" mapstructure:"server"`
	Catalog              CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
}

// CatalogConfig selects the dataset and tunes the reports.
type CatalogConfig struct {
	// Dataset is a JSON dataset path. Empty uses the bundled sample.
	Dataset      string `yaml:"dataset" mapstructure:"dataset"`
	TopCustomers int    `yaml:"top_customers" mapstructure:"top_customers" validate:"gte=0,lte=100"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Catalog.TopCustomers == 0 {
		c.Catalog.TopCustomers = 5
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := validation.Validate(c.Catalog); err != nil {
		return fmt.Errorf("config.catalog: %w", err)
	}
	return nil
}

// Report is the output of the report command.
type Report struct {
	Categories      []catalog.CategorySummary `json:"categories"`
	TopCustomers    []catalog.CustomerRevenue `json:"top_customers"`
	ProductSales    []catalog.ProductSales    `json:"product_sales"`
	MissingProducts []string                  `json:"missing_products"`
	Tags            []string                  `json:"tags"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "seqquery:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	configFile := fs.String("config", "", "config file (default: searched next to the binary)")
	envFile := fs.String("env", "", ".env file (default: searched next to the binary)")
	dataset := fs.String("dataset", "", "dataset JSON file, overrides catalog.dataset")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.Get().String())
		return nil
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}
	if *dataset != "" {
		cfg.Catalog.Dataset = *dataset
	}

	command := "report"
	if cfg.Server.Enabled {
		command = "serve"
	}
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}

	app, err := bootstrap.NewApp(&cfg, bootstrap.WithComponentLoggers("query", "catalog", "server"))
	if err != nil {
		return err
	}

	var store *catalog.Store
	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
		s, err := newStore(ctx, a)
		if err != nil {
			return err
		}
		store = s
		a.AddHealthChecker(store)
		return nil
	})

	switch command {
	case "serve":
		var srv *server.Server
		app.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
			var err error
			srv, err = newServer(a, store)
			return err
		})
		app.OnReady(func(ctx context.Context) error { return srv.Start(ctx) })
		app.OnStop(func(ctx context.Context) error {
			if srv == nil {
				return nil
			}
			return srv.Shutdown(ctx)
		})
		return app.Run(ctx)

	case "report":
		return app.RunTask(ctx, func(ctx context.Context) error {
			report, err := buildReport(ctx, store, cfg.Catalog.TopCustomers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		})

	default:
		return fmt.Errorf("unknown command %q, want serve or report", command)
	}
}

func newStore(ctx context.Context, a *bootstrap.App[*Config]) (*catalog.Store, error) {
	ds := catalog.Sample()
	if path := a.Cfg.Catalog.Dataset; path != "" {
		loaded, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		ds = loaded
	}

	inst := query.Instrumentation{
		Logger:    logger.Get("query"),
		Tracing:   a.Cfg.Observability.Enabled,
		SlowAfter: time.Duration(a.Cfg.Logging.SlowQueryMs) * time.Millisecond,
	}
	if a.Cfg.Observability.Enabled {
		m, err := observability.NewQueryMetrics(observability.Meter())
		if err != nil {
			return nil, err
		}
		inst.Metrics = m
	}

	for _, q := range []string{"catalog.search", "catalog.order", "catalog.categories", "catalog.customers", "catalog.sales", "catalog.missing", "catalog.tags"} {
		a.Summary.TrackQuery(q)
	}
	return catalog.NewStore(ctx, ds,
		catalog.WithInstrumentation(inst),
		catalog.WithLogger(logger.Get("catalog")))
}

func newServer(a *bootstrap.App[*Config], store *catalog.Store) (*server.Server, error) {
	if store == nil {
		return nil, errors.New("catalog store is not configured")
	}

	var opts []server.Option
	if a.Cfg.Observability.Enabled {
		m, err := observability.NewHTTPMetrics(observability.Meter())
		if err != nil {
			return nil, err
		}
		opts = append(opts, server.WithHTTPMetrics(m))
	}

	srv := server.New(a.Cfg.Server, logger.Get("server"), opts...)
	srv.RegisterSystemEndpoints(a.Name, a.HealthCheckers()...)
	catalog.NewHandler(store).Register(srv.Engine())

	for _, r := range srv.Engine().Routes() {
		a.Summary.TrackRoute(r.Method, r.Path)
	}
	return srv, nil
}

func buildReport(ctx context.Context, store *catalog.Store, top int) (*Report, error) {
	var (
		r   Report
		err error
	)
	if r.Categories, err = store.CategorySummaries(ctx); err != nil {
		return nil, err
	}
	if r.TopCustomers, err = store.TopCustomers(ctx, top); err != nil {
		return nil, err
	}
	if r.ProductSales, err = store.ProductSales(ctx); err != nil {
		return nil, err
	}
	if r.MissingProducts, err = store.MissingProducts(ctx); err != nil {
		return nil, err
	}
	if r.Tags, err = store.Tags(ctx); err != nil {
		return nil, err
	}
	return &r, nil
}
