package commands

import (
	"fmt"
	cfg "github.com/coopgov/coopgov-go/cmd/config"
	"github.com/coopgov/coopgov-go/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/cli"
	"github.com/tendermint/tendermint/libs/log"
	tmos "github.com/tendermint/tendermint/libs/os"
	"os"
	"time"
)

const (
	flagFrom = "from"
	flagTime = "time"
)

var (
	rootConfig = cfg.DefaultConfig()
	logger     = log.NewTMLogger(log.NewSyncWriter(os.Stdout))
)

// RootCmd is the root of the coopgov command line tool.
var RootCmd = &cobra.Command{
	Use:   "coopgov",
	Short: "multi-class weighted voting engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}
		if err = viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		rootConfig, err = loadRootConfig(viper.GetString(cli.HomeFlag))
		if err != nil {
			return err
		}
		opt, err := log.AllowLevel(rootConfig.LogLevel)
		if err != nil {
			return err
		}
		logger = log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), opt)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().String(flagFrom, "", "hex address of the caller")
	RootCmd.PersistentFlags().Int64(flagTime, 0, "unix time of the call (default: now)")
}

// loadRootConfig reads the config file under home when it exists.
func loadRootConfig(home string) (*cfg.Config, error) {
	file := ""
	located := cfg.DefaultConfig()
	if home != "" {
		located.SetHome(home)
	}
	if tmos.FileExists(located.ConfigFile()) {
		file = located.ConfigFile()
	}

	config, err := cfg.LoadConfig(file)
	if err != nil {
		return nil, err
	}
	config.SetHome(located.Home)
	return config, nil
}

func callerAddress() (types.Address, error) {
	from := viper.GetString(flagFrom)
	if from == "" {
		return nil, fmt.Errorf("--%s is required", flagFrom)
	}
	return parseAddress(from)
}

func callTime() int64 {
	if t := viper.GetInt64(flagTime); t > 0 {
		return t
	}
	return time.Now().Unix()
}
