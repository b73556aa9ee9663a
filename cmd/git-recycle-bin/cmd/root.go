package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/treeverse/git-recycle-bin/pkg/config"
	"github.com/treeverse/git-recycle-bin/pkg/logging"
	"github.com/treeverse/git-recycle-bin/pkg/version"
	"golang.org/x/term"
)

// cli is the state shared by all commands of one invocation
type cli struct {
	viper   *viper.Viper
	cfgFile string
	cfg     *config.Config
	verbose int
	quiet   bool
}

// configKeyAnnotation marks a flag as the source of a configuration key
const configKeyAnnotation = "git-recycle-bin/config-key"

// bind makes flag the source of key once its command runs. Several commands may bind
// the same key, only the running command's flags are bound.
func (*cli) bind(flags *pflag.FlagSet, key, flag string) {
	if err := flags.SetAnnotation(flag, configKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("bind flag %s: %s", flag, err))
	}
}

// bindFlags binds the flags of cmd. Unchanged flags leave their key to env, file and defaults.
func (c *cli) bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if keys := f.Annotations[configKeyAnnotation]; len(keys) > 0 && err == nil {
			err = c.viper.BindPFlag(keys[0], f)
		}
	})
	return err
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := c.bindFlags(cmd); err != nil {
		return err
	}
	if err := config.Setup(c.viper, c.cfgFile); err != nil {
		return err
	}
	cfg, err := config.NewConfig(c.viper)
	if err != nil {
		return err
	}
	switch {
	case c.quiet:
		cfg.Verbosity = 0
	case c.verbose > 0:
		cfg.Verbosity = config.DefaultVerbosity + c.verbose
	}
	if !cfg.Color {
		DisableColors()
	}
	// log colors only make sense on a terminal
	cfg.Color = cfg.Color && term.IsTerminal(int(os.Stderr.Fd()))
	cfg.SetupLogging()
	c.cfg = cfg

	if used := c.viper.ConfigFileUsed(); used != "" {
		logging.FromContext(cmd.Context()).WithField("file", used).Debug("Configuration file")
	}
	return nil
}

// NewRootCmd builds the command tree with fresh configuration state
func NewRootCmd() *cobra.Command {
	c := &cli{viper: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "git-recycle-bin",
		Short: "Create and push artifacts - which have traceability and expiry",
		Long: `git-recycle-bin stores build artifacts as commits on expiring branches of a git
repository, one orphan branch per source commit and artifact path. Every artifact commit carries
the provenance of the source commit it was built from.`,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	rootCmd.SetVersionTemplate("git-recycle-bin version: {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "config file (default is $HOME/.git-recycle-bin.yaml)")
	flags.CountVarP(&c.verbose, "verbose", "v", "increase output verbosity, can be repeated")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "suppress output")
	yesNoFlag(flags, "color", true, "colorized output")
	flags.String("log-level", "", "set logging level, overrides verbosity")
	flags.String("log-format", config.DefaultLoggingFormat, "set logging output format (text, json)")
	flags.StringSlice("log-output", []string{config.DefaultLoggingOutput}, "set logging output(s): '-' stdout, '=' stderr, or a file")
	c.bind(flags, config.ColorKey, "color")
	c.bind(flags, config.LoggingLevelKey, "log-level")
	c.bind(flags, config.LoggingFormatKey, "log-format")
	c.bind(flags, config.LoggingOutputKey, "log-output")

	rootCmd.AddCommand(
		newCreateCmd(c),
		newCleanCmd(c),
		newExpiredCmd(c),
		newVersionCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		DieErr(err)
	}
}
