package core

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the core and backends report
// (spec §7).
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindAlreadyExists
	KindNotADirectory
	KindIsADirectory
	KindIsSameFile
	KindPermissionDenied
	KindContentTruncated
	KindContentIncomplete
	KindConditionNotMatch
	KindRateLimited
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindAlreadyExists:
		return "AlreadyExists"
	case KindNotADirectory:
		return "NotADirectory"
	case KindIsADirectory:
		return "IsADirectory"
	case KindIsSameFile:
		return "IsSameFile"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindContentTruncated:
		return "ContentTruncated"
	case KindContentIncomplete:
		return "ContentIncomplete"
	case KindConditionNotMatch:
		return "ConditionNotMatch"
	case KindRateLimited:
		return "RateLimited"
	case KindUnsupported:
		return "Unsupported"
	default:
		return "Unexpected"
	}
}

// Error is the structured error type every adapter and backend in stratum
// returns. It carries enough context for callers to both branch on Kind via
// errors.Is/errors.As and render a useful diagnostic.
type Error struct {
	Kind    Kind
	Message string

	Op      string // operation tag, e.g. "read", "write"
	Service string // scheme tag of the backend that raised this

	Context []KV

	cause error
}

// KV is one key-value context pair attached to an Error.
type KV struct {
	Key   string
	Value string
}

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithOperation returns a copy of e tagged with the given operation.
func (e *Error) WithOperation(op string) *Error {
	e2 := *e
	e2.Op = op
	return &e2
}

// WithService returns a copy of e tagged with the given backend scheme.
func (e *Error) WithService(scheme string) *Error {
	e2 := *e
	e2.Service = scheme
	return &e2
}

// WithContext returns a copy of e with an extra key-value context pair.
func (e *Error) WithContext(key, value string) *Error {
	e2 := *e
	e2.Context = append(append([]KV{}, e.Context...), KV{Key: key, Value: value})
	return &e2
}

// WithCause returns a copy of e wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	e2 := *e
	e2.cause = cause
	return &e2
}

func (e *Error) Error() string {
	s := e.Kind.String() + ": " + e.Message
	if e.Op != "" {
		s += fmt.Sprintf(" (op=%s)", e.Op)
	}
	if e.Service != "" {
		s += fmt.Sprintf(" (service=%s)", e.Service)
	}
	for _, kv := range e.Context {
		s += fmt.Sprintf(" (%s=%s)", kv.Key, kv.Value)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As can walk the chain,
// matching the Cause()-chaining convention rclone's fs/fserrors package uses
// (albeit against the standard library's Unwrap protocol instead of a
// hand-rolled Cause() interface, since stratum targets modern Go).
func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets errors.Is(err, core.KindNotFound-shaped sentinel) work by comparing
// Kind when the target is also an *Error.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// KindOf extracts the Kind of err if it is, or wraps, a *Error; otherwise it
// returns KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Sentinel errors for the Kind values callers most often branch on, mirroring
// rclone's fs.ErrorObjectNotFound / fs.ErrorDirNotFound pattern of exported
// sentinels alongside the richer structured type.
var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAlreadyExists    = &Error{Kind: KindAlreadyExists, Message: "already exists"}
	ErrUnsupported      = &Error{Kind: KindUnsupported, Message: "operation is not supported"}
	ErrUnexpected       = &Error{Kind: KindUnexpected, Message: "unexpected"}
	ErrConditionNoMatch = &Error{Kind: KindConditionNotMatch, Message: "condition not matched"}
)
