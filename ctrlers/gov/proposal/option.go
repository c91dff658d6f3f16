package proposal

import (
	"encoding/json"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/holiman/uint256"
)

// VoteOption keeps one raw accumulator per class of the proposal snapshot
// and the calls dispatched if the option wins.
type VoteOption struct {
	classRaw []*uint256.Int
	batch    []*ctrlertypes.Call
}

func NewVoteOption(classCnt int, batch []*ctrlertypes.Call) *VoteOption {
	raw := make([]*uint256.Int, classCnt)
	for i := range raw {
		raw[i] = uint256.NewInt(0)
	}
	return &VoteOption{
		classRaw: raw,
		batch:    batch,
	}
}

func NewVoteOptions(classCnt int, batches [][]*ctrlertypes.Call, optCnt int) []*VoteOption {
	opts := make([]*VoteOption, optCnt)
	for i := range opts {
		var batch []*ctrlertypes.Call
		if len(batches) > 0 {
			batch = batches[i]
		}
		opts[i] = NewVoteOption(classCnt, batch)
	}
	return opts
}

func (opt *VoteOption) ClassRaw(classIdx int) *uint256.Int {
	return opt.classRaw[classIdx].Clone()
}

func (opt *VoteOption) ClassRaws() []*uint256.Int {
	ret := make([]*uint256.Int, len(opt.classRaw))
	for i, v := range opt.classRaw {
		ret[i] = v.Clone()
	}
	return ret
}

func (opt *VoteOption) Batch() []*ctrlertypes.Call {
	return opt.batch
}

func (opt *VoteOption) MarshalJSON() ([]byte, error) {
	_tmp := &struct {
		ClassRaw []string            `json:"classRaw"`
		Batch    []*ctrlertypes.Call `json:"batch,omitempty"`
	}{
		ClassRaw: uint256sToStrings(opt.classRaw),
		Batch:    opt.batch,
	}
	return json.Marshal(_tmp)
}

func (opt *VoteOption) UnmarshalJSON(bz []byte) error {
	_tmp := &struct {
		ClassRaw []string            `json:"classRaw"`
		Batch    []*ctrlertypes.Call `json:"batch,omitempty"`
	}{}
	if err := json.Unmarshal(bz, _tmp); err != nil {
		return err
	}
	raw, err := stringsToUint256s(_tmp.ClassRaw)
	if err != nil {
		return err
	}
	opt.classRaw = raw
	opt.batch = _tmp.Batch
	return nil
}

func stringsToUint256s(strs []string) ([]*uint256.Int, error) {
	ret := make([]*uint256.Int, len(strs))
	for i, s := range strs {
		v, err := ctrlertypes.StringToUint256(s)
		if err != nil {
			return nil, err
		}
		if v == nil {
			v = uint256.NewInt(0)
		}
		ret[i] = v
	}
	return ret, nil
}

func uint256sToStrings(vals []*uint256.Int) []string {
	ret := make([]string, len(vals))
	for i, v := range vals {
		ret[i] = ctrlertypes.Uint256ToString(v)
	}
	return ret
}
