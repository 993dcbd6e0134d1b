// Package metrics counts command runs with Prometheus and, when a
// Pushgateway is configured, pushes them at the end of the run.
package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Job is the Pushgateway job name.
const Job = "davical_cmdlnutl"

// GroupingLabel keys each command's metric group on the Pushgateway. It
// cannot be "command" since the pushed series already carry that label.
const GroupingLabel = "subcommand"

// Recorder holds the command metrics and the registry they live in.
type Recorder struct {
	gatherer     prometheus.Gatherer
	commandCount *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lastSuccess  *prometheus.GaugeVec

	// command is the last command passed to Observe.
	command string
}

// New registers the command metrics with reg.
func New(reg *prometheus.Registry) (*Recorder, error) {
	r := &Recorder{
		gatherer: reg,
		commandCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "davical_cmdlnutl_commands_total",
				Help: "Total number of commands run.",
			},
			[]string{"command", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "davical_cmdlnutl_command_duration_seconds",
				Help:    "Command run time in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "davical_cmdlnutl_last_success_timestamp_seconds",
				Help: "Unix time of the last successful run of a command.",
			},
			[]string{"command"},
		),
	}

	for _, c := range []prometheus.Collector{r.commandCount, r.duration, r.lastSuccess} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe runs fn and records its outcome under command.
func (r *Recorder) Observe(command string, fn func() error) error {
	r.command = command
	start := time.Now()
	err := fn()

	status := "success"
	if err != nil {
		status = "error"
	} else {
		r.lastSuccess.WithLabelValues(command).SetToCurrentTime()
	}
	r.commandCount.WithLabelValues(command, status).Inc()
	r.duration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	return err
}

// Push adds the gathered metrics to the Pushgateway at url, grouped by the
// observed command so that runs of different commands keep their own series.
// Nothing is pushed when no command was observed.
func (r *Recorder) Push(ctx context.Context, url string) error {
	if r.command == "" {
		return nil
	}
	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}
	return push.New(url, Job).
		Grouping(GroupingLabel, groupingValue(r.command)).
		Gatherer(r.gatherer).
		Client(client).
		AddContext(ctx)
}

// groupingValue turns "user add" into "user_add".
func groupingValue(command string) string {
	return strings.ReplaceAll(command, " ", "_")
}
