package params

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey indicates a nil, empty or non string/int key.
	ErrInvalidKey = errors.New("params: invalid key")
	// ErrImmutable indicates a write attempted on a frozen container.
	ErrImmutable = errors.New("params: container is immutable")
	// ErrInvalidArgument indicates data that is neither a mapping nor a
	// compatible container.
	ErrInvalidArgument = errors.New("params: invalid argument")
	// ErrUnsupportedValue indicates an opaque leaf value that lacks the
	// snapshot or copy capability an operation needs.
	ErrUnsupportedValue = errors.New("params: unsupported value")
	// ErrQuerySyntax indicates a malformed path query.
	ErrQuerySyntax = errors.New("params: query syntax error")
	// ErrConfiguration indicates an option that cannot be resolved.
	ErrConfiguration = errors.New("params: invalid configuration")
)

// OpError records the operation and key that produced a container error.
type OpError struct {
	Op  string
	Key any
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key == nil {
		return fmt.Sprintf("%v (op=%s)", e.Err, e.Op)
	}
	return fmt.Sprintf("%v (op=%s key=%v)", e.Err, e.Op, e.Key)
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func opError(op string, key any, err error) error {
	return &OpError{Op: op, Key: key, Err: err}
}

// QuerySyntaxError reports a malformed query expression. Offset is the byte
// position reported by the parser, or -1 when unknown.
type QuerySyntaxError struct {
	Engine     string
	Expression string
	Offset     int
	Err        error
}

func (e *QuerySyntaxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Offset >= 0 {
		return fmt.Sprintf("params: %s query %s offset=%d: %v", e.Engine, describeExpression(e.Expression), e.Offset, e.Err)
	}
	return fmt.Sprintf("params: %s query %s: %v", e.Engine, describeExpression(e.Expression), e.Err)
}

func (e *QuerySyntaxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match ErrQuerySyntax.
func (e *QuerySyntaxError) Is(target error) bool {
	return target == ErrQuerySyntax
}
