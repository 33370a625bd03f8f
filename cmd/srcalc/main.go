// Command srcalc evaluates arithmetic expressions.
//
//	srcalc "(1 + 2) * 3"            evaluate an expression argument
//	echo "1 + 2" | srcalc           evaluate one line of standard input
//	srcalc check vectors.yaml       run YAML test vectors
//	srcalc serve --addr :8080       serve GET/POST /v1/eval
//	srcalc grammar                  print grammar and parse tables
//
// Configuration is taken from flags, with environment variables as fallback:
// SRCALC_TRACE (trace level), SRCALC_ADDR (serve address) and
// SRCALC_GROUPING (locale digit grouping).
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/srcalc"
	"github.com/npillmayer/srcalc/eval"
	"github.com/npillmayer/srcalc/grammar"
	"github.com/npillmayer/srcalc/internal/display"
	"github.com/npillmayer/srcalc/internal/server"
	"github.com/npillmayer/srcalc/internal/testvectors"
	"github.com/npillmayer/srcalc/parser"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "srcalc [expression]",
		Short:             "Evaluate arithmetic expressions with + * ( ) over integers",
		Version:           version,
		SilenceUsage:      true,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: setupTracing,
		RunE:              runEval,
	}
	root.PersistentFlags().String("trace", "", "trace level: error, info or debug (default error, env SRCALC_TRACE)")
	root.Flags().Bool("group", false, "group digits according to the user's locale (env SRCALC_GROUPING)")
	root.Flags().String("locale", "", "locale for digit grouping, e.g. de-DE (default from environment)")

	check := &cobra.Command{
		Use:   "check FILE...",
		Short: "Evaluate YAML test vectors and report mismatches",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	check.Flags().Bool("oracle", false, "cross-check acceptance with the Earley recognizer")
	root.AddCommand(check)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve expression evaluation over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serve.Flags().String("addr", "", "listen address (default :8080, env SRCALC_ADDR)")
	serve.Flags().Int("machines", 0, "maximum number of concurrent evaluations (default unlimited)")
	serve.Flags().Bool("group", false, "group digits in the display field (env SRCALC_GROUPING)")
	root.AddCommand(serve)

	root.AddCommand(&cobra.Command{
		Use:   "grammar",
		Short: "Print the expression grammar and the parse tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gtrace.SyntaxTracer.SetTraceLevel(tracing.LevelDebug)
			grammar.Dump()
			return parser.WriteTables(cmd.OutOrStdout())
		},
	})
	return root
}

// --- Configuration ---------------------------------------------------------

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTracing(cmd *cobra.Command, args []string) error {
	level := envOrDefault("SRCALC_TRACE", "error")
	if v, _ := cmd.Flags().GetString("trace"); v != "" {
		level = v
	}
	var l tracing.TraceLevel
	switch strings.ToLower(level) {
	case "debug":
		l = tracing.LevelDebug
	case "info":
		l = tracing.LevelInfo
	case "error":
		l = tracing.LevelError
	default:
		return fmt.Errorf("unknown trace level %q", level)
	}
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(l)
	gtrace.SyntaxTracer = gologadapter.New()
	gtrace.SyntaxTracer.SetTraceLevel(l)
	return nil
}

func grouping(cmd *cobra.Command) bool {
	group, _ := strconv.ParseBool(envOrDefault("SRCALC_GROUPING", "false"))
	if cmd.Flags().Changed("group") {
		group, _ = cmd.Flags().GetBool("group")
	}
	return group
}

func formatter(cmd *cobra.Command) *display.Formatter {
	group := grouping(cmd)
	if loc, _ := cmd.Flags().GetString("locale"); loc != "" {
		return display.ForLocale(loc, group)
	}
	if !group {
		return nil // plain digits, no need to detect a locale
	}
	return display.FromEnvironment(group)
}

// --- Commands --------------------------------------------------------------

func runEval(cmd *cobra.Command, args []string) error {
	var value int
	var err error
	if len(args) > 0 {
		value, err = eval.Evaluate(strings.Join(args, " "))
	} else {
		line, rerr := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			return rerr
		}
		value, err = eval.Evaluate(strings.TrimRight(line, "\r\n"))
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatter(cmd).Format(value))
	return nil
}

// errMismatch is returned by check if at least one test vector failed.
var errMismatch = errors.New("test vectors failed")

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ev := eval.NewEvaluator(ctx, 0)
	defer ev.Close(ctx)
	oracle, _ := cmd.Flags().GetBool("oracle")
	out := cmd.OutOrStdout()
	total, failed := 0, 0
	for _, filename := range args {
		cases, err := testvectors.Load(filename)
		if err != nil {
			return err
		}
		for _, c := range cases {
			total++
			value, err := ev.Evaluate(ctx, c.Input)
			if e := c.Check(value, err); e != nil {
				failed++
				fmt.Fprintf(out, "FAIL %s:%d %v\n", filename, c.Line, e)
				continue
			}
			if oracle && !agreesWithOracle(c.Input, err) {
				failed++
				fmt.Fprintf(out, "FAIL %s:%d %s: Earley recognizer disagrees with parse tables\n",
					filename, c.Line, c.Name)
			}
		}
	}
	fmt.Fprintf(out, "%d of %d test vectors passed\n", total-failed, total)
	if failed > 0 {
		return errMismatch
	}
	return nil
}

// agreesWithOracle compares the acceptance of input by the Earley recognizer
// with the outcome of its evaluation. Only syntax matters: overflow in a
// reduction happens for well-formed input, and scanner faults stop both
// machines alike.
func agreesWithOracle(input string, evalErr error) bool {
	tables := evalErr == nil
	if !tables && !errors.Is(evalErr, srcalc.ErrMalformedInput) {
		return true
	}
	accept, err := grammar.Recognize(input)
	if err != nil {
		return true
	}
	return accept == tables
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := envOrDefault("SRCALC_ADDR", ":8080")
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}
	machines, _ := cmd.Flags().GetInt("machines")
	ctx := context.Background()
	ev := eval.NewEvaluator(ctx, machines)
	defer ev.Close(ctx)
	srv := server.New(ev, display.FromEnvironment(grouping(cmd)))

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		gtrace.CoreTracer.Infof("shutting down")
		if err := srv.Shutdown(); err != nil {
			gtrace.CoreTracer.Errorf("error during shutdown: %v", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "srcalc listening on %s\n", addr)
	return srv.Listen(addr)
}
