package commands

import (
	"encoding/json"
	"fmt"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/libs"
	"github.com/coopgov/coopgov-go/types"
	"github.com/spf13/cobra"
)

func NewClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Show or replace the active class set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, types.QUERY_CLASSES, nil)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [file]",
		Short: "Replace the class set with the JSON list in file",
		Args:  cobra.ExactArgs(1),
		RunE:  setClasses,
	})
	return cmd
}

func readClasses(file string) ([]*ctrlertypes.Class, error) {
	bz, err := libs.NewFileReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	var classes []*ctrlertypes.Class
	if err := json.Unmarshal(bz, &classes); err != nil {
		return nil, fmt.Errorf("error parsing classes: %w", err)
	}
	return classes, nil
}

// setClasses seeds the class set on first use and replaces it afterwards.
func setClasses(cmd *cobra.Command, args []string) error {
	classes, err := readClasses(args[0])
	if err != nil {
		return err
	}
	sender, err := callerAddress()
	if err != nil {
		return err
	}

	eng, err := openEngine(rootConfig, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx := newTrxContext(eng, sender)
	if _, xerr := eng.ctrler.ReadClasses(); xerr != nil {
		if xerr := eng.ctrler.InitClasses(ctx, classes); xerr != nil {
			return xerr
		}
	} else if xerr := eng.ctrler.SetClasses(ctx, classes); xerr != nil {
		return xerr
	}
	return printEvents(cmd, ctx)
}
