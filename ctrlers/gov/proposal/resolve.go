package proposal

import (
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
)

// Scores returns, per option, the sum over classes with votes of
// floor(raw * slice / classTotal). A score never exceeds 100.
func (prop *GovProposal) Scores() []uint64 {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.scores()
}

func (prop *GovProposal) scores() []uint64 {
	scores := make([]uint64, len(prop.Options))
	term := new(uint256.Int)
	for i, opt := range prop.Options {
		score := new(uint256.Int)
		for c, class := range prop.Classes {
			total := prop.ClassTotals[c]
			if total.IsZero() {
				continue
			}
			// raw <= 2^128-1 and slice <= 100, the product fits.
			term.Mul(opt.classRaw[c], uint256.NewInt(uint64(class.SlicePct)))
			term.Div(term, total)
			score.Add(score, term)
		}
		scores[i] = score.Uint64()
	}
	return scores
}

func (prop *GovProposal) hasVotes() bool {
	for _, t := range prop.ClassTotals {
		if !t.IsZero() {
			return true
		}
	}
	return false
}

// Resolve picks the highest scoring option. On a tie the lower index keeps
// the lead but the tie makes the result invalid. With no votes at all it
// returns option 0, invalid.
func (prop *GovProposal) Resolve(quorumPct uint64) (uint32, bool, []uint64) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	scores := prop.scores()
	if !prop.hasVotes() {
		return 0, false, scores
	}

	var hi, second uint64
	winner := uint32(0)
	for i, s := range scores {
		if s > hi {
			second = hi
			hi = s
			winner = uint32(i)
		} else if s > second || s == hi {
			second = s
		}
	}
	return winner, hi >= quorumPct && hi > second, scores
}

// Finalize records the outcome and flips the one-shot executed flag.
func (prop *GovProposal) Finalize(result *VoteResult) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Executed {
		return xerrors.ErrAlreadyExecuted
	}
	prop.Executed = true
	prop.Result = result
	return nil
}

func (prop *GovProposal) IsExecuted() bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Executed
}

// WinningBatch returns the calls of option idx, empty if it has none.
func (prop *GovProposal) WinningBatch(idx uint32) []*ctrlertypes.Call {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if int(idx) >= len(prop.Options) {
		return nil
	}
	return prop.Options[idx].Batch()
}
