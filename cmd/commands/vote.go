package commands

import (
	"fmt"
	"github.com/spf13/cobra"
	"strconv"
	"strings"
)

func NewVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "vote [proposal] [option:weight]...",
		Short:   "Cast a ballot splitting 100 points over options",
		Example: "  coopgov vote 1 0:70 2:30 --from 0x...",
		Args:    cobra.MinimumNArgs(2),
		RunE:    vote,
	}
}

func NewAnnounceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "announce [proposal]",
		Short: "Resolve an expired proposal and execute its winning batch",
		Args:  cobra.ExactArgs(1),
		RunE:  announce,
	}
}

// parseBallot turns "idx:weight" pairs into parallel index and weight lists.
func parseBallot(pairs []string) ([]uint32, []uint32, error) {
	indices := make([]uint32, len(pairs))
	weights := make([]uint32, len(pairs))
	for i, p := range pairs {
		idx, w, ok := strings.Cut(p, ":")
		if !ok {
			return nil, nil, fmt.Errorf("wrong ballot entry %q: expected option:weight", p)
		}
		n, err := strconv.ParseUint(idx, 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("wrong option index %q: %w", idx, err)
		}
		m, err := strconv.ParseUint(w, 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("wrong weight %q: %w", w, err)
		}
		indices[i], weights[i] = uint32(n), uint32(m)
	}
	return indices, weights, nil
}

func vote(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return err
	}
	indices, weights, err := parseBallot(args[1:])
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
	if xerr := eng.ctrler.Vote(ctx, id, indices, weights); xerr != nil {
		return xerr
	}
	return printEvents(cmd, ctx)
}

func announce(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
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
	winner, valid, xerr := eng.ctrler.AnnounceWinner(ctx, id)
	if xerr != nil {
		return xerr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "proposal %d: winner %d, valid %v\n", id, winner, valid)
	return printEvents(cmd, ctx)
}
