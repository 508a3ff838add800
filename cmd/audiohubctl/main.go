// Command audiohubctl performs maintenance tasks directly against storage:
// migrations, account management and token minting.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/audiohub/internal/config"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
)

type rootOpts struct {
	configPath string
	envFile    string
	out        string // text | json
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:           "audiohubctl",
		Short:         "Maintenance CLI for audiohub",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			_ = godotenv.Load(opts.envFile)
			logger.Init(logger.Config{Env: "dev", Level: "warn"})
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file")
	root.PersistentFlags().StringVarP(&opts.out, "out", "o", "text", "output format: text|json")

	root.AddCommand(
		newMigrateCmd(opts),
		newUsersCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func (o *rootOpts) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
