package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/exiftool"
	"github.com/NeuralTrust/MetaGuard/pkg/infra/ledger"
	infraLogger "github.com/NeuralTrust/MetaGuard/pkg/infra/logger"
	"github.com/NeuralTrust/MetaGuard/pkg/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	dbPath    string
	noHistory bool
	exiftool  string
	logLevel  string
}

// deps are swapped out in tests.
type deps struct {
	out         io.Writer
	now         func() time.Time
	newPipeline func(logger *logrus.Logger, binary string) pipeline.Pipeline
	openLedger  func(path string) (*ledger.Ledger, error)
}

func defaultDeps() deps {
	return deps{
		out: os.Stdout,
		now: time.Now,
		newPipeline: func(logger *logrus.Logger, binary string) pipeline.Pipeline {
			extractor := exiftool.New(logger, exiftool.Config{Binary: binary})
			return pipeline.NewPipeline(logger, extractor, nil, pipeline.Config{})
		},
		openLedger: ledger.Open,
	}
}

type cli struct {
	deps
	flags globalFlags
}

func newRootCmd(d deps) *cobra.Command {
	c := &cli{deps: d}

	rootCmd := &cobra.Command{
		Use:           "metaguard",
		Short:         "Inspect and strip privacy sensitive file metadata",
		Version:       version.Version,
		SilenceUsage: true,
	}
	rootCmd.SetOut(d.out)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.flags.dbPath, "db", ledger.DefaultPath(), "run history database path")
	pf.BoolVar(&c.flags.noHistory, "no-history", false, "do not record runs in the history database")
	pf.StringVar(&c.flags.exiftool, "exiftool", exiftool.DefaultBinary, "exiftool binary")
	pf.StringVar(&c.flags.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(c.scanCmd())
	rootCmd.AddCommand(c.cleanCmd())
	rootCmd.AddCommand(c.historyCmd())
	return rootCmd
}

func (c *cli) logger() *logrus.Logger {
	logger, _, err := infraLogger.New(infraLogger.Options{
		Level:   c.flags.logLevel,
		Console: os.Stderr,
	})
	if err != nil {
		fallback := logrus.New()
		fallback.SetOutput(os.Stderr)
		return fallback
	}
	return logger
}

func (c *cli) pipeline() pipeline.Pipeline {
	return c.newPipeline(c.logger(), c.flags.exiftool)
}

// record stores a run summary unless history is disabled. Failures only warn.
func (c *cli) record(cmd *cobra.Command, entry *ledger.Entry) {
	if c.flags.noHistory {
		return
	}
	l, err := c.openLedger(c.flags.dbPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: history disabled: %v\n", err)
		return
	}
	defer l.Close()
	if err := l.Record(cmd.Context(), entry); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to record run: %v\n", err)
	}
}
