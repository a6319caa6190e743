// Command nikabot lists and invokes the chat tools from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/plagness/NikaBot/config"
	"github.com/plagness/NikaBot/pkg/llmutils"
	"github.com/plagness/NikaBot/tools"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/plagness/NikaBot", "nikabot")

type cli struct {
	configFile string
	logLevel   string

	out io.Writer
	cfg *config.Config
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	rootCmd := &cobra.Command{
		Use:           "nikabot",
		Short:         "NikaBot chat tools",
		Long:          "Lists the function specifications of the chat tools and invokes them by name.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVarP(&c.configFile, "config", "c", os.Getenv("NIKABOT_CONFIG"), "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "ERROR", "Log level: DEBUG, INFO, WARNING, ERROR")

	rootCmd.AddCommand(c.specsCmd(), c.callCmd())
	return rootCmd
}

func (c *cli) init() error {
	level, err := parseLogLevel(c.logLevel)
	if err != nil {
		return err
	}
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	xlog.SetGlobalLogLevel(level)

	c.cfg, err = config.Load(c.configFile)
	return err
}

func parseLogLevel(s string) (xlog.LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return xlog.DEBUG, nil
	case "INFO":
		return xlog.INFO, nil
	case "WARNING", "WARN":
		return xlog.WARNING, nil
	case "ERROR":
		return xlog.ERROR, nil
	default:
		return xlog.ERROR, errors.Newf("invalid log level: %q", s)
	}
}

func (c *cli) specsCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "specs",
		Short: "Print the function specifications of the enabled tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := newRegistry(c.cfg)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				fmt.Fprintln(c.out, llmutils.ToJSONIndent(r.Specs()))
			case "yaml":
				fmt.Fprint(c.out, llmutils.ToYAML(r.Specs()))
			case "openai":
				fmt.Fprintln(c.out, llmutils.ToJSONIndent(r.OpenAITools()))
			default:
				return errors.Newf("unsupported format: %q", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, openai")
	return cmd
}

func (c *cli) callCmd() *cobra.Command {
	var (
		input string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "call <function> [key=value ...]",
		Short: "Invoke a tool and print its answer",
		Example: `  nikabot call web_search query="новости golang"
  nikabot call get_crypto_info --json '{"asset": "btc"}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRegistry(c.cfg)
			if err != nil {
				return err
			}

			params, err := parseArgs(input, args[1:])
			if err != nil {
				return err
			}

			res := r.Execute(cmd.Context(), args[0], nil, params)
			if raw {
				fmt.Fprint(c.out, llmutils.ToYAML(res))
			} else {
				fmt.Fprintln(c.out, res.FormattedAnswer())
			}
			if res.Failed() {
				logger.KV(xlog.DEBUG, "function", args[0], "err", res.ErrorMessage())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "json", "", "Arguments as JSON object")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the whole result as YAML")
	return cmd
}

// parseArgs merges JSON arguments with key=value pairs, pairs take precedence
func parseArgs(input string, pairs []string) (map[string]any, error) {
	args, err := tools.ParseArgs(input)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.Newf("invalid argument %q: expected key=value", p)
		}
		args[k] = v
	}
	return args, nil
}
