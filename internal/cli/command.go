package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/dirlist/internal/dirlist"
	"github.com/idelchi/dirlist/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// EnvPrefix prefixes environment variables that override flags.
const EnvPrefix = "DIRLIST"

const (
	flagOutput      = "output"
	flagStrategy    = "strategy"
	flagRepeat      = "repeat"
	flagBatch       = "batch"
	flagLabel       = "label"
	flagDebug       = "debug"
	flagVersion     = "version"
	flagIntegration = "init"
)

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"log", "table", "json", "paths"}

func initFlags(flags *pflag.FlagSet) {
	flags.StringP(flagOutput, "o", "log", "Output format: "+strings.Join(allowedOutputs, ", "))
	flags.StringSliceP(
		flagStrategy,
		"s",
		[]string{string(dirlist.StrategyFlat), string(dirlist.StrategyNested)},
		"Listing strategies to run, in order (flat, nested, walk)",
	)
	flags.IntP(flagRepeat, "r", 1, "Number of times each strategy runs")
	flags.Int(flagBatch, dirlist.DefaultBatchSize, "Entries read per call by the nested strategy")
	flags.String(flagLabel, "", "Parent label for nested paths (defaults to the path)")
	flags.Bool(flagDebug, false, "Enable debug output")
	flags.BoolP(flagVersion, "v", false, "Show version and exit")
	flags.BoolP(flagIntegration, "i", false, "Output init script for shell usage")
	flags.SortFlags = false
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return v, fmt.Errorf("binding flag set to viper: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v, nil
}

// options builds run options from the resolved configuration.
func options(v *viper.Viper, args []string) (dirlist.Options, error) {
	opt := dirlist.Options{
		Label:       v.GetString(flagLabel),
		Repeat:      v.GetInt(flagRepeat),
		BatchSize:   v.GetInt(flagBatch),
		Debug:       v.GetBool(flagDebug),
		Output:      strings.ToLower(v.GetString(flagOutput)),
		Version:     v.GetBool(flagVersion),
		Integration: v.GetBool(flagIntegration),
	}

	if !slices.Contains(allowedOutputs, opt.Output) {
		return opt, fmt.Errorf("invalid output format %q: must be one of %v", opt.Output, allowedOutputs)
	}

	if opt.Repeat < 1 {
		return opt, errors.New("repeat must be at least 1")
	}

	if opt.BatchSize < 1 {
		return opt, errors.New("batch must be at least 1")
	}

	strategies, err := dirlist.ParseStrategies(v.GetStringSlice(flagStrategy))
	if err != nil {
		return opt, err
	}

	opt.Strategies = strategies

	if len(args) == 0 {
		opt.Path = dirlist.DefaultPath
	} else {
		opt.Path = args[0]
	}

	return opt, nil
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "dirlist [flags] [path]",
		DisableFlagsInUseLine: true,
		Short:                 "dirlist lists a directory and times each listing strategy.",
		Long: heredoc.Doc(`
			dirlist lists the immediate children of a directory and reports
			how long each listing strategy takes.

			Positional Arguments:
			  path    Directory to list. Defaults to ` + dirlist.DefaultPath + `.

			Strategies:
			  flat    read the whole directory at once, sort by name
			  nested  stream the directory handle in batches, sort by path
			  walk    enumerate one level in parallel with fastwalk

			Every flag can also be set through the environment, e.g.
			DIRLIST_OUTPUT=json or DIRLIST_STRATEGY=flat,walk.

			The '-i' flag prints a zsh widget that pipes the listing into 'fzf'.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("initializing viper: %w", err)
			}

			opt, err := options(v, args)
			if err != nil {
				return err
			}

			if opt.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if opt.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			return logic(cmd.Context(), opt, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	initFlags(cmd.Flags())

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}
