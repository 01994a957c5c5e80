package oracle

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrThrottled indicates the oracle returned a rate limit error (429).
type ErrThrottled struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrThrottled) Error() string {
	return fmt.Sprintf("oracle throttled (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrThrottled) Unwrap() error { return e.Err }

// ErrBadReply indicates the oracle returned content that does not conform
// to the requested schema, or no usable content at all.
type ErrBadReply struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrBadReply) Error() string {
	return fmt.Sprintf("malformed oracle reply: %v", e.Err)
}

func (e *ErrBadReply) Unwrap() error { return e.Err }

// ErrUnavailable indicates the oracle is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle unavailable: %v", e.Err)
	}
	return "oracle unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrTruncated indicates the reply was cut off by the MaxTokens limit.
type ErrTruncated struct {
	Content json.RawMessage
}

func (e *ErrTruncated) Error() string {
	return "oracle reply truncated: max tokens exceeded"
}
