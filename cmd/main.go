package main

import (
	"github.com/coopgov/coopgov-go/cmd/commands"
	"github.com/coopgov/coopgov-go/libs"
	"github.com/tendermint/tendermint/libs/cli"
	"path/filepath"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.NewClassesCmd(),
		commands.NewProposeCmd(),
		commands.NewVoteCmd(),
		commands.NewAnnounceCmd(),
		commands.NewShowCmd(),
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "COOPGOV", filepath.Join(libs.GetHome(), ".coopgov"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
