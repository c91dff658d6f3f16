package commands

import (
	"encoding/json"
	"fmt"
	"github.com/coopgov/coopgov-go/ctrlers/gov"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/libs"
	"github.com/spf13/cobra"
)

var (
	proposeDesc     string
	proposeDuration uint64
	proposeOptions  int
	proposeBatches  string
	proposeRoles    []uint64
)

func NewProposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose [title]",
		Short: "Create a proposal",
		Args:  cobra.ExactArgs(1),
		RunE:  propose,
	}
	cmd.Flags().StringVar(&proposeDesc, "desc", "", "reference to the off-chain description")
	cmd.Flags().Uint64Var(&proposeDuration, "duration", 60*24, "voting period in minutes")
	cmd.Flags().IntVar(&proposeOptions, "options", 2, "number of options")
	cmd.Flags().StringVar(&proposeBatches, "batches", "", "JSON file holding one call list per option")
	cmd.Flags().Uint64SliceVar(&proposeRoles, "allowed-roles", nil, "roles allowed to vote (default: everyone)")
	return cmd
}

func readBatches(file string) ([][]*ctrlertypes.Call, error) {
	if file == "" {
		return nil, nil
	}
	bz, err := libs.NewFileReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	var batches [][]*ctrlertypes.Call
	if err := json.Unmarshal(bz, &batches); err != nil {
		return nil, fmt.Errorf("error parsing batches: %w", err)
	}
	return batches, nil
}

func propose(cmd *cobra.Command, args []string) error {
	batches, err := readBatches(proposeBatches)
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
	id, xerr := eng.ctrler.CreateProposal(ctx, &gov.ProposalRequest{
		Title:           args[0],
		DescriptionRef:  proposeDesc,
		DurationMinutes: proposeDuration,
		OptionCount:     proposeOptions,
		Batches:         batches,
		AllowedRoles:    proposeRoles,
	})
	if xerr != nil {
		return xerr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "proposal %d created\n", id)
	return printEvents(cmd, ctx)
}
