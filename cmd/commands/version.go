package commands

import (
	"fmt"
	xver "github.com/coopgov/coopgov-go/cmd/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), xver.String())
	},
}
