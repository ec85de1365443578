package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zzalscv2/athena-atlas-sub040/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error(), Err: err}
}

func failure(err error) *ExitError {
	return &ExitError{Code: 1, Message: err.Error(), Err: err}
}

// options collects every flag; each command reads the ones it declares.
type options struct {
	logLevel  string
	logFormat string

	graphFormat string

	events          string
	boards          int
	parallel        bool
	dump            bool
	redisAddr       string
	redisPrefix     string
	healthcheckPort int
}

func (o *options) config(menuPath string) (*app.Config, error) {
	return app.NewConfig(app.Config{
		MenuPath:        menuPath,
		EventsPath:      o.events,
		LogLevel:        strings.ToLower(o.logLevel),
		LogFormat:       strings.ToLower(o.logFormat),
		HealthcheckPort: o.healthcheckPort,
		Boards:          o.boards,
		ParallelBoards:  o.parallel,
		DumpRepository:  o.dump,
		GraphFormat:     strings.ToLower(o.graphFormat),
		RedisAddr:       o.redisAddr,
		RedisPrefix:     o.redisPrefix,
	})
}

// operation is one App entry point.
type operation func(a *app.App, ctx context.Context) error

// action adapts an operation to a cobra RunE. Command output goes to the
// command's out writer, logs to its err writer.
func (o *options) action(op operation) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := o.config(args[0])
		if err != nil {
			return usageError(err)
		}
		a := app.NewApp(cmd.OutOrStdout(), cfg, app.WithLogWriter(cmd.ErrOrStderr()))
		runErr := op(a, cmd.Context())
		if err := a.Close(); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			return failure(runErr)
		}
		return nil
	}
}

// NewRootCommand builds the l1topo-sim command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "l1topo-sim",
		Short:         "Simulate a topological level-1 trigger menu",
		Long:          `l1topo-sim loads a trigger menu of input, sort, count and decision algorithms, orders them by dependency and runs them over recorded events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	root.PersistentFlags().StringVar(&o.logFormat, "log-format", "text", "Log output format: text or json.")

	validateCmd := &cobra.Command{
		Use:   "validate MENU",
		Short: "Check a trigger menu for consistency",
		Args:  cobra.ExactArgs(1),
		RunE:  o.action((*app.App).Validate),
	}

	orderCmd := &cobra.Command{
		Use:   "order MENU",
		Short: "Print the execution sequence of a trigger menu",
		Args:  cobra.ExactArgs(1),
		RunE:  o.action((*app.App).PrintOrder),
	}

	graphCmd := &cobra.Command{
		Use:   "graph MENU",
		Short: "Export the algorithm dependency graph",
		Args:  cobra.ExactArgs(1),
		RunE:  o.action((*app.App).PrintGraph),
	}
	graphCmd.Flags().StringVar(&o.graphFormat, "format", "text", "Graph format: text or dot.")

	runCmd := &cobra.Command{
		Use:   "run MENU",
		Short: "Run a trigger menu over an event file",
		Args:  cobra.ExactArgs(1),
		RunE:  o.action((*app.App).Run),
	}
	runCmd.Flags().StringVar(&o.events, "events", "", "YAML event file.")
	runCmd.Flags().IntVar(&o.boards, "boards", 1, "Number of boards each event is run on.")
	runCmd.Flags().BoolVar(&o.parallel, "parallel", false, "Run the boards of an event concurrently.")
	runCmd.Flags().BoolVar(&o.dump, "dump", false, "Write every repository as YAML to stdout.")
	runCmd.Flags().StringVar(&o.redisAddr, "redis-addr", "", "Redis address for the schedule store; in-memory when empty.")
	runCmd.Flags().StringVar(&o.redisPrefix, "redis-prefix", "", "Key prefix for stored schedules.")
	runCmd.Flags().IntVar(&o.healthcheckPort, "healthcheck-port", 0, "Port for the /health and /metrics server. 0 is disabled.")
	_ = runCmd.MarkFlagRequired("events")

	root.AddCommand(validateCmd, orderCmd, graphCmd, runCmd)
	return root
}

// Execute runs the command tree against args. Errors are always *ExitError:
// code 2 for usage errors, 1 for failures.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	// Anything cobra rejects before a command runs is a usage error.
	return usageError(err)
}
