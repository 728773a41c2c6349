/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Command lrumemo reads integer keys from stdin (one per line) and prints the number of Collatz steps
// for each of them, memoizing results with LRU eviction.
//
// Usage:
//
//	lrumemo [-config config.yaml] [-quiet] < keys.txt
//
// Configuration parameters may be overridden with environment variables prefixed by LRUMEMO_
// (e.g. LRUMEMO_MEMO_CAPACITY=100). Logs go to stderr unless log.output says otherwise.
package main

import (
	"flag"
	"io"
	"os"

	"github.com/pbougue/utils/config"
	"github.com/pbougue/utils/log"
)

const envVarsPrefix = "lrumemo"

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// runMain runs the tool and returns the process exit code.
func runMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("lrumemo", flag.ContinueOnError)
	flags.SetOutput(stderr)
	cfgPath := flags.String("config", "", "path to the configuration file (YAML or JSON)")
	quiet := flags.Bool("quiet", false, "disable logging (configuration errors are still reported)")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadAppConfig(config.NewDefaultLoader(envVarsPrefix), *cfgPath)
	if err != nil {
		logger, closeLogger := log.NewLoggerWithWriter(log.NewDefaultConfig(), stderr)
		logger.Error("configuration is invalid", log.Error(err))
		closeLogger()
		return 1
	}

	logger, closeLogger := newAppLogger(cfg.Log, *quiet, stderr)
	defer closeLogger()
	if err = run(cfg, logger, stdin, stdout); err != nil {
		logger.Error("lrumemo failed", log.Error(err))
		return 1
	}
	return 0
}

func newAppLogger(cfg *log.Config, quiet bool, stderr io.Writer) (log.FieldLogger, log.CloseFunc) {
	switch {
	case quiet:
		return log.NewDisabledLogger(), func() {}
	case cfg.Output == log.OutputStderr:
		return log.NewLoggerWithWriter(cfg, stderr)
	default:
		return log.NewLogger(cfg)
	}
}
