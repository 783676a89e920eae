package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/101arrowz/nadder/internal/config"
	"github.com/101arrowz/nadder/ndarray"
)

const version = "v0.1.0-dev"

// appendEnvDocs lists the environment variables a command honours in its
// usage text.
func appendEnvDocs(cmd *cobra.Command, envs []config.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI builds the root command with every subcommand attached.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "nadder",
		Short:         "N-dimensional arrays and universal functions",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setup(cmd.ErrOrStderr())
		},
		Run: func(cmd *cobra.Command, args []string) {
			if v, _ := cmd.Flags().GetBool("version"); v {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	evalCmd := newEvalCmd()
	reduceCmd := newReduceCmd()
	accumulateCmd := newAccumulateCmd()
	indexCmd := newIndexCmd()

	envVars := config.AsMap()
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	envs := make([]config.EnvVar, 0, len(names))
	for _, name := range names {
		envs = append(envs, envVars[name])
	}
	for _, cmd := range []*cobra.Command{evalCmd, reduceCmd, accumulateCmd, indexCmd} {
		appendEnvDocs(cmd, envs)
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		evalCmd,
		reduceCmd,
		accumulateCmd,
		indexCmd,
		newOpsCmd(),
		newDTypesCmd(),
		newEnvCmd(),
	)

	return rootCmd
}

// setup installs the logger and, unless disabled, a foreign arena for new
// arrays.
func setup(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: config.LogLevel()})))

	if ndarray.DefaultAllocator() == nil && config.PreferForeign(true) {
		limit := int(config.ArenaLimit())
		ndarray.SetDefaultAllocator(ndarray.NewArena(0, limit))
		slog.Debug("installed foreign arena", "limit", limit)
	}
}

func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "nadder version %s\n", version)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run:   versionHandler,
	}
}
