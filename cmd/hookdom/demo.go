package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hookdom/internal/config"
	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/demo"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
	"github.com/vango-dev/hookdom/pkg/middleware"
)

func demoCmd() *cobra.Command {
	var (
		passes  int
		start   int
		metrics bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render the counter component and print each pass",
		Long: `Render the built-in counter component, advance it, and print the host
mutations and resulting markup of every pass.

Examples:
  hookdom demo
  hookdom demo --passes 5 --start 3
  hookdom demo --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), demoOptions{
				passes:  passes,
				start:   start,
				metrics: metrics,
				verbose: verbose,
			})
		},
	}

	cmd.Flags().IntVarP(&passes, "passes", "n", 3, "Number of updates after the initial render")
	cmd.Flags().IntVar(&start, "start", 0, "Initial count")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print pass metrics at the end")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every pass")

	return cmd
}

type demoOptions struct {
	passes  int
	start   int
	metrics bool
	verbose bool
}

func runDemo(ctx context.Context, out, logOut io.Writer, opts demoOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.New()
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	logger := newLogger(logOut, cfg)

	reg := prometheus.NewRegistry()
	mw := []component.Middleware{middleware.Logger(logger)}
	if opts.metrics {
		mw = append(mw, middleware.Prometheus(middleware.WithRegistry(reg)))
	}
	mw = append(mw, middleware.Recover())

	doc := memhost.New()
	counter := demo.NewCounter(opts.start)
	in := component.Mount(doc, doc.Root(), counter.Render,
		component.WithLogger(logger),
		component.WithMiddleware(mw...))

	printPass := func() {
		fmt.Fprintf(out, "pass %d\n", in.Passes())
		for _, op := range doc.Attached() {
			fmt.Fprintf(out, "  %s\n", op)
		}
		fmt.Fprintf(out, "  => %s\n", memhost.InnerHTML(doc.Root()))
		doc.ResetJournal()
	}

	if err := in.RenderPass(ctx); err != nil {
		return err
	}
	printPass()

	for i := 0; i < opts.passes; i++ {
		counter.Tick()
		if err := in.Flush(ctx); err != nil {
			return err
		}
		printPass()
	}

	if opts.metrics {
		return printMetrics(out, reg)
	}
	return nil
}

// printMetrics writes counter and histogram totals, one per line.
func printMetrics(out io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "metrics")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(out, "  %s%s %s\n", mf.GetName(), labels(m), value(mf.GetType(), m))
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	pairs := m.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	sort.Strings(parts)
	s := "{"
	for i, p := range parts {
		if i > 0 {
			s += ","
		}
		s += p
	}
	return s + "}"
}

func value(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		return fmt.Sprintf("count=%d", m.GetHistogram().GetSampleCount())
	}
	return "?"
}
