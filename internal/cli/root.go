// Package cli implements the reviewlens command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/logging"
)

const envPrefix = "REVIEWLENS"

type app struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds the command tree. Each call gets its own viper instance
// so commands can be executed more than once in a process.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "reviewlens",
		Short: "Batch sentiment analysis for customer reviews",
		Long: `reviewlens cleans a column of customer reviews, labels each one Positive,
Neutral or Negative, and reports the sentiment distribution and top keywords.

Reviews may be written in English, Shona, Ndebele or Tonga.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newAnalyzeCmd(a), newSuggestCmd(a))
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) initConfig() error {
	config.SetDefaults(a.v)

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	level := a.v.GetString("log_level")
	if env := os.Getenv("LOG_LEVEL"); env != "" && !a.v.IsSet("log_level") {
		level = env
	}
	logging.InitLogger(level)
	return nil
}
