package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types"
	"github.com/spf13/cobra"
	"strconv"
)

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [proposal]",
		Short: "Show one proposal, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runQuery(cmd, types.QUERY_PROPOSALS, nil)
			}
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			return runQuery(cmd, types.QUERY_PROPOSAL, types.Uint64Params(id))
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "result [proposal]",
		Short: "Show the per-option scores of a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return err
			}
			return runQuery(cmd, types.QUERY_RESULT, types.Uint64Params(id))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "params",
		Short: "Show the governance parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, types.QUERY_GOVPARAMS, nil)
		},
	})
	return cmd
}

func runQuery(cmd *cobra.Command, command int16, params []byte) error {
	eng, err := openEngine(rootConfig, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	bz, xerr := eng.ctrler.Query(types.NewQueryData(command, params))
	if xerr != nil {
		return xerr
	}
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, bz, "", "  "); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), buf.String())
	return nil
}

func printEvents(cmd *cobra.Command, ctx *ctrlertypes.TrxContext) error {
	for _, evt := range ctx.Events {
		line := evt.Type
		for _, attr := range evt.Attributes {
			line += " " + string(attr.Key) + "=" + string(attr.Value)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func newTrxContext(eng *engine, sender types.Address) *ctrlertypes.TrxContext {
	return ctrlertypes.NewTrxContext(eng.ctrler.Version()+1, callTime(), sender)
}

func parseAddress(s string) (types.Address, error) {
	addr, xerr := types.HexToAddress(s)
	if xerr != nil {
		return nil, xerr
	}
	return addr, nil
}
