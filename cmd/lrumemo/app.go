/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pbougue/utils/config"
	"github.com/pbougue/utils/log"
	"github.com/pbougue/utils/lrumemo"
)

const (
	cfgKeyMetricsNamespace   = "metrics.namespace"
	cfgKeyMetricsTextfile    = "metrics.textfile"
	cfgKeyMetricsConstLabels = "metrics.constLabels"
	cfgKeyLogOutput          = "log.output"

	defaultMetricsNamespace = "lrumemo"

	metricsLabelFunction = "function"
	functionNameCollatz  = "collatz"
)

var (
	errNotPositive = errors.New("argument must be positive")
	errOverflow    = errors.New("collatz sequence exceeds int64 range")
)

// AppConfig is a configuration of the lrumemo tool.
type AppConfig struct {
	Memo    *lrumemo.Config
	Log     *log.Config
	Metrics *MetricsConfig
}

// NewAppConfig creates a new AppConfig with all nested configurations initialized.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Memo:    lrumemo.NewConfig(""),
		Log:     log.NewConfig(""),
		Metrics: &MetricsConfig{},
	}
}

// MetricsConfig describes where memoization metrics go.
type MetricsConfig struct {
	Namespace string
	// Textfile is a path of the file where metrics are written in Prometheus text format at exit.
	// Empty means metrics are not written.
	Textfile string
	// ConstLabels are added to all memoization metrics.
	ConstLabels map[string]string
}

var _ config.Config = (*MetricsConfig)(nil)

// SetProviderDefaults sets default configuration values in config.DataProvider.
func (c *MetricsConfig) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyMetricsNamespace, defaultMetricsNamespace)
}

// Set sets configuration values from config.DataProvider.
func (c *MetricsConfig) Set(dp config.DataProvider) error {
	var err error
	if c.Namespace, err = dp.GetString(cfgKeyMetricsNamespace); err != nil {
		return err
	}
	if c.Textfile, err = dp.GetString(cfgKeyMetricsTextfile); err != nil {
		return err
	}
	return dp.UnmarshalKey(cfgKeyMetricsConstLabels, &c.ConstLabels)
}

// cliDefaults overrides library defaults that do not suit the command line tool.
// It must be loaded after the configurations whose defaults it overrides.
type cliDefaults struct{}

// SetProviderDefaults makes logs go to stderr so they are not mixed with results.
func (cliDefaults) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyLogOutput, string(log.OutputStderr))
}

func (cliDefaults) Set(config.DataProvider) error { return nil }

func loadAppConfig(loader *config.Loader, cfgPath string) (*AppConfig, error) {
	cfg := NewAppConfig()
	if cfgPath == "" {
		if err := loader.Load(cfg.Memo, cfg.Log, cfg.Metrics, cliDefaults{}); err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		return cfg, nil
	}
	dataType := config.DataTypeYAML
	if strings.HasSuffix(cfgPath, ".json") {
		dataType = config.DataTypeJSON
	}
	if err := loader.LoadFromFile(cfgPath, dataType, cfg.Memo, cfg.Log, cfg.Metrics, cliDefaults{}); err != nil {
		return nil, fmt.Errorf("load configuration from %s: %w", cfgPath, err)
	}
	return cfg, nil
}

// collatzSteps returns the number of steps needed by the Collatz sequence started from n to reach 1.
func collatzSteps(n int64) (int64, error) {
	if n <= 0 {
		return 0, errNotPositive
	}
	var steps int64
	for n != 1 {
		if n%2 == 0 {
			n /= 2
		} else {
			if n > (math.MaxInt64-1)/3 {
				return 0, errOverflow
			}
			n = 3*n + 1
		}
		steps++
	}
	return steps, nil
}

// newMemoMetrics creates memoization metrics partitioned by the memoized function name.
// They must be curried with the "function" label before being passed to a memoizer.
func newMemoMetrics(cfg *MetricsConfig) *lrumemo.PrometheusMetrics {
	return lrumemo.NewPrometheusMetricsWithOpts(lrumemo.PrometheusMetricsOpts{
		Namespace:         cfg.Namespace,
		ConstLabels:       cfg.ConstLabels,
		CurriedLabelNames: []string{metricsLabelFunction},
	})
}

type processStats struct {
	Processed int
	Skipped   int
	Failed    int
}

// processor reads keys line by line and writes "key value" results of the memoized function.
// It owns the memoizer, so it must be used from a single goroutine.
type processor struct {
	memo   *lrumemo.LRUMemo[int64, int64]
	logger log.FieldLogger
}

func newProcessor(memoCfg *lrumemo.Config, metrics lrumemo.MetricsCollector, logger log.FieldLogger) (*processor, error) {
	memo, err := lrumemo.NewFromConfig[int64, int64](collatzSteps, memoCfg, lrumemo.Options{MetricsCollector: metrics})
	if err != nil {
		return nil, fmt.Errorf("create memoizer: %w", err)
	}
	return &processor{memo: memo, logger: logger}, nil
}

func (p *processor) process(in io.Reader, out io.Writer) (processStats, error) {
	var stats processStats
	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			stats.Skipped++
			p.logger.Warn("skipping malformed key", log.Int("line", lineNum), log.String("key", line))
			continue
		}
		val, err := p.memo.Call(key)
		if err != nil {
			stats.Failed++
			p.logger.Error("computation failed", log.Int64("key", key), log.Error(err))
			continue
		}
		stats.Processed++
		p.logger.Debug("key processed", log.Int64("key", key), log.Int64("value", val))
		if _, err = fmt.Fprintf(w, "%d %d\n", key, val); err != nil {
			return stats, fmt.Errorf("write result: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read keys: %w", err)
	}
	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("write result: %w", err)
	}
	return stats, nil
}

// run processes keys from in with the configuration and returns an error only if processing cannot go on.
func run(cfg *AppConfig, logger log.FieldLogger, in io.Reader, out io.Writer) error {
	registry := prometheus.NewRegistry()
	metrics := newMemoMetrics(cfg.Metrics)
	metrics.MustRegisterIn(registry)

	p, err := newProcessor(cfg.Memo, metrics.MustCurryWith(prometheus.Labels{metricsLabelFunction: functionNameCollatz}), logger)
	if err != nil {
		return err
	}
	logger.Info("processing keys", log.Int("capacity", cfg.Memo.Capacity))

	stats, err := p.process(in, out)
	if err != nil {
		return err
	}
	logger.Info("keys processed",
		log.Int("processed", stats.Processed), log.Int("skipped", stats.Skipped), log.Int("failed", stats.Failed))

	if cfg.Metrics.Textfile != "" {
		if err = prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
			return fmt.Errorf("write metrics to %s: %w", cfg.Metrics.Textfile, err)
		}
		logger.Info("metrics written", log.String("path", cfg.Metrics.Textfile))
	}
	return nil
}
