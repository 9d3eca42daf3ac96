// Command mataccel benchmarks the 4x4 matrix accelerator against the software
// reference and prints the comparison.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/mataccel/config"
	"github.com/sarchlab/mataccel/matrix"
	"github.com/sarchlab/mataccel/mmio"
	"github.com/sarchlab/mataccel/util/valgen"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// Operand patterns of generated runs.
const (
	patternRandom     = "random"
	patternIncreasing = "increasing"
)

var (
	errRunsOutOfRange     = errors.New("runs must be at least 1")
	errOperandsWithRandom = errors.New(
		"--operands and --random cannot be used together")
)

type options struct {
	configPath   string
	operandsPath string
	backend      string
	runs         int
	seed         int64
	random       bool
	pattern      string
	start        int16
	maxPolls     int
	monitor      bool
	trace        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "mataccel",
		Short:        "Benchmark the matrix accelerator against software",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.platformConfig(cmd)
			if err != nil {
				return err
			}

			return run(cmd.OutOrStdout(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "platform YAML file")
	f.StringVarP(&opts.operandsPath, "operands", "o", "", "operand YAML file with matrices a and b")
	f.StringVar(&opts.backend, "backend", "", "override the backend (sim or devmem)")
	f.IntVarP(&opts.runs, "runs", "n", 1, "number of benchmark runs")
	f.Int64Var(&opts.seed, "seed", 1, "seed for random operands")
	f.BoolVar(&opts.random, "random", false,
		"use generated operands for every run, including the first")
	f.StringVar(&opts.pattern, "pattern", patternRandom,
		"operand pattern of generated runs (random or increasing)")
	f.Int16Var(&opts.start, "start", 0,
		"value before the first element of the increasing pattern")
	f.IntVar(&opts.maxPolls, "max-polls", 0, "bound the accelerator status wait (0 waits forever)")
	f.BoolVar(&opts.monitor, "monitor", false, "start the akita monitor for the simulated platform")
	f.BoolVar(&opts.trace, "trace", false,
		"log every register access at the trace level")
	cmd.MarkFlagsMutuallyExclusive("operands", "random")

	return cmd
}

func (o *options) platformConfig(cmd *cobra.Command) (config.PlatformConfig, error) {
	cfg := config.DefaultPlatformConfig()

	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadPlatformConfig(o.configPath); err != nil {
			return cfg, err
		}
	}

	if o.backend != "" {
		cfg.Backend = o.backend
	}

	if cmd.Flags().Changed("max-polls") {
		cfg.MaxPolls = o.maxPolls
	}

	if o.trace {
		cfg.Trace = true
	}

	return cfg, cfg.Validate()
}

func (o *options) validate() error {
	if o.runs < 1 {
		return fmt.Errorf("%w, got %d", errRunsOutOfRange, o.runs)
	}

	if o.operandsPath != "" && o.random {
		return errOperandsWithRandom
	}

	switch o.pattern {
	case "", patternRandom, patternIncreasing:
	default:
		return fmt.Errorf("unknown operand pattern %q", o.pattern)
	}

	return nil
}

func run(out io.Writer, cfg config.PlatformConfig, opts *options) error {
	if err := opts.validate(); err != nil {
		return err
	}

	if cfg.Trace {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: mmio.LevelTrace})))
	}

	builder := config.MakeBuilder().WithConfig(cfg)

	var monitor *monitoring.Monitor
	if opts.monitor && cfg.Backend == config.BackendSim {
		monitor = monitoring.NewMonitor()
		builder = builder.WithMonitor(monitor)
	}

	platform, err := builder.Build()
	if err != nil {
		return err
	}
	atexit.Register(func() {
		if err := platform.Close(); err != nil {
			slog.Error("failed to release platform", "Error", err)
		}
	})

	if monitor != nil {
		monitor.StartServer()
	}

	operands, err := newOperandSource(opts)
	if err != nil {
		return err
	}

	harness := platform.Harness()
	mismatched := 0

	for i := 0; i < opts.runs; i++ {
		a, b := operands.next()
		accesses := busAccesses(platform)

		report, err := harness.Run(a, b)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}

		fmt.Fprintf(out, "\nRun %d of %d\n", i+1, opts.runs)
		report.WriteReport(out)

		if platform.Bus != nil {
			fmt.Fprintf(out, "Bus accesses: %d\n",
				busAccesses(platform)-accesses)
		}

		if !report.Consistent() {
			mismatched++
		}
	}

	if mismatched > 0 {
		return fmt.Errorf("%d of %d runs produced mismatching results",
			mismatched, opts.runs)
	}

	return nil
}

// busAccesses returns the bus cycles spent so far on a simulated platform.
func busAccesses(p *config.Platform) uint64 {
	if p.Bus == nil {
		return 0
	}

	return p.Bus.Accesses()
}

// operandSource yields the operand pair of each run: the operand file or the
// identity example first, then generated pairs.
type operandSource struct {
	first    bool
	a, b     matrix.Matrix16
	generate func() int16
}

func newOperandSource(opts *options) (*operandSource, error) {
	if opts.operandsPath != "" && opts.random {
		return nil, errOperandsWithRandom
	}

	generate := valgen.MakeRandomGen(opts.seed, matrix.SafeInputMax)
	if opts.pattern == patternIncreasing {
		generate = valgen.MakeIncreasingGen(opts.start)
	}

	s := &operandSource{
		first:    !opts.random,
		generate: generate,
		a: matrix.FromRows([4][4]int16{
			{1, 2, 3, 4},
			{5, 6, 7, 8},
			{9, 10, 11, 12},
			{13, 14, 15, 16},
		}),
		b: matrix.Identity(),
	}

	if opts.operandsPath != "" {
		a, b, err := matrix.LoadOperands(opts.operandsPath)
		if err != nil {
			return nil, err
		}
		s.a, s.b = a, b
	}

	return s, nil
}

func (s *operandSource) next() (a, b matrix.Matrix16) {
	if s.first {
		s.first = false
		return s.a, s.b
	}

	return valgen.Fill(s.generate), valgen.Fill(s.generate)
}
