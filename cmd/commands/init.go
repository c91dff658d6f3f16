package commands

import (
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
)

var (
	initExecutor string
	initEngine   string
)

func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file under the home directory",
		RunE:  initFiles,
	}
	cmd.Flags().StringVar(&initExecutor, "executor", "", "hex address of the executor")
	cmd.Flags().StringVar(&initEngine, "engine", "", "hex address of the engine itself")
	return cmd
}

func initFiles(cmd *cobra.Command, args []string) error {
	configFile := rootConfig.ConfigFile()
	if tmos.FileExists(configFile) {
		logger.Info("Found config file", "path", configFile)
		return nil
	}

	if initExecutor != "" {
		addr, err := parseAddress(initExecutor)
		if err != nil {
			return err
		}
		rootConfig.Gov.Executor = addr
	}
	if initEngine != "" {
		addr, err := parseAddress(initEngine)
		if err != nil {
			return err
		}
		rootConfig.Gov.Engine = addr
	}
	if err := rootConfig.Validate(); err != nil {
		return err
	}
	if err := rootConfig.Save(configFile); err != nil {
		return err
	}
	logger.Info("Generated config file", "path", configFile)
	return nil
}
