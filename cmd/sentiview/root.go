package main

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sentiview/internal/common/fsutil"
	"sentiview/internal/config"
)

type rootOptions struct {
	configPath string
	endpoint   string
	timeout    int
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "sentiview",
		Short:         "Sentiment analysis playground over a remote text classifier",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags with environment variable defaults (SENTIVIEW_*)
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", os.Getenv("SENTIVIEW_CONFIG"), "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&opts.endpoint, "endpoint", "", "Classification endpoint, e.g. http://localhost:5000/predict")
	pf.IntVar(&opts.timeout, "timeout", 0, "Classification timeout in seconds (0 = config default)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")

	root.AddCommand(newServeCmd(opts), newPredictCmd(opts), newCompletionCmd(root))
	return root
}

// loadConfig layers flags over env over the config file over defaults.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	var file config.Config
	if o.configPath != "" {
		p, err := fsutil.ResolveConfigPath(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		if file, err = config.Load(p); err != nil {
			return config.Config{}, err
		}
	}
	var flags config.Config
	if f := cmd.Flags().Lookup("endpoint"); f != nil && f.Changed {
		flags.Endpoint = o.endpoint
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		flags.TimeoutSeconds = o.timeout
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		flags.LogLevel = o.logLevel
	}
	if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
		flags.Addr = f.Value.String()
	}
	cfg := flags.Merge(config.FromEnv().Merge(file.Merge(config.Defaults())))
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger writes human-readable output to terminals and JSON otherwise.
func newLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	return completionCmd
}
