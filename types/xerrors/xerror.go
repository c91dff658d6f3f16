package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeGeneric
	ErrCodeNotFoundResult
	ErrCodeCommit
	ErrCodeQuery
	ErrCodeInvalidQueryCmd
	ErrCodeInvalidQueryParams
	ErrCodeReentrantCall
)

// validation
const (
	ErrCodeInvalidClassCount uint32 = 100 + iota
	ErrCodeInvalidSlice
	ErrCodeInvalidSliceSum
	ErrCodeMissingAsset
	ErrCodeInvalidStrategy
	ErrCodeTooManyGatingRoles
	ErrCodeInvalidTitle
	ErrCodeInvalidDuration
	ErrCodeInvalidOptionCount
	ErrCodeBatchLengthMismatch
	ErrCodeTooManyCalls
	ErrCodeSelfCall
	ErrCodeWeightsLength
	ErrCodeInvalidIndex
	ErrCodeDuplicateIndex
	ErrCodeInvalidWeight
	ErrCodeInvalidWeightSum
	ErrCodeInvalidParams
)

// authorization and state
const (
	ErrCodeNoRight uint32 = 200 + iota
	ErrCodeRoleNotAllowed
	ErrCodeNotFoundProposal
	ErrCodeVotingExpired
	ErrCodeVotingActive
	ErrCodeAlreadyVoted
	ErrCodeAlreadyExecuted
	ErrCodeAlreadyInitialized
)

// arithmetic and collaborators
const (
	ErrCodeOverflow uint32 = 300 + iota
	ErrCodeOracle
	ErrCodeExecutionFailed
)

var (
	ErrNotFoundResult     = NewWith(ErrCodeNotFoundResult, "not found result")
	ErrCommit             = NewWith(ErrCodeCommit, "commit failed")
	ErrQuery              = NewWith(ErrCodeQuery, "query failed")
	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
	ErrReentrantCall      = NewWith(ErrCodeReentrantCall, "another operation is in flight")

	ErrInvalidClassCount   = NewWith(ErrCodeInvalidClassCount, "invalid class count")
	ErrInvalidSlice        = NewWith(ErrCodeInvalidSlice, "invalid slice percentage")
	ErrInvalidSliceSum     = NewWith(ErrCodeInvalidSliceSum, "slice percentages must sum to 100")
	ErrMissingAsset        = NewWith(ErrCodeMissingAsset, "balance weighted class requires an asset")
	ErrInvalidStrategy     = NewWith(ErrCodeInvalidStrategy, "unknown class strategy")
	ErrTooManyGatingRoles  = NewWith(ErrCodeTooManyGatingRoles, "too many gating roles")
	ErrInvalidTitle        = NewWith(ErrCodeInvalidTitle, "invalid title")
	ErrInvalidDuration     = NewWith(ErrCodeInvalidDuration, "invalid voting duration")
	ErrInvalidOptionCount  = NewWith(ErrCodeInvalidOptionCount, "invalid option count")
	ErrBatchLengthMismatch = NewWith(ErrCodeBatchLengthMismatch, "batch count does not match option count")
	ErrTooManyCalls        = NewWith(ErrCodeTooManyCalls, "too many calls in batch")
	ErrSelfCall            = NewWith(ErrCodeSelfCall, "call targets the voting engine")
	ErrWeightsLength       = NewWith(ErrCodeWeightsLength, "indices and weights length mismatch or empty")
	ErrInvalidIndex        = NewWith(ErrCodeInvalidIndex, "option index out of range")
	ErrDuplicateIndex      = NewWith(ErrCodeDuplicateIndex, "duplicated option index")
	ErrInvalidWeight       = NewWith(ErrCodeInvalidWeight, "weight exceeds 100")
	ErrInvalidWeightSum    = NewWith(ErrCodeInvalidWeightSum, "weights must sum to 100")
	ErrInvalidParams       = NewWith(ErrCodeInvalidParams, "invalid governance parameters")

	ErrNoRight            = NewWith(ErrCodeNoRight, "no right")
	ErrRoleNotAllowed     = NewWith(ErrCodeRoleNotAllowed, "caller holds none of the allowed roles")
	ErrNotFoundProposal   = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrVotingExpired      = NewWith(ErrCodeVotingExpired, "voting period is over")
	ErrVotingActive       = NewWith(ErrCodeVotingActive, "voting period is not over")
	ErrAlreadyVoted       = NewWith(ErrCodeAlreadyVoted, "already voted")
	ErrAlreadyExecuted    = NewWith(ErrCodeAlreadyExecuted, "proposal already finalized")
	ErrAlreadyInitialized = NewWith(ErrCodeAlreadyInitialized, "classes already initialized")

	ErrOverflow        = NewWith(ErrCodeOverflow, "accumulator exceeds 128 bits")
	ErrOracle          = NewWith(ErrCodeOracle, "oracle query failed")
	ErrExecutionFailed = NewWith(ErrCodeExecutionFailed, "execution sink failed")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Unwrap() error
	Is(error) bool
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewOrdinary(m string) XError {
	return New(m)
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

// From converts err to XError, keeping the code of an XError already in the chain.
func From(err error) XError {
	if err == nil {
		return nil
	}
	var xe XError
	if errors.As(err, &xe) {
		return xe
	}
	return &xerr{
		code:  ErrCodeGeneric,
		msg:   err.Error(),
		cause: err,
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

// Is reports whether target carries the same code, so wrapped
// errors still match their sentinel.
func (e *xerr) Is(target error) bool {
	var t *xerr
	if !errors.As(target, &t) {
		return false
	}
	return e.code == t.code && e.code != ErrCodeGeneric
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...any) XError {
	return e.Wrap(fmt.Errorf(format, args...))
}
