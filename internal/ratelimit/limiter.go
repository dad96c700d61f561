// Package ratelimit throttles MCP tool calls per tool name.
package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// ErrLimited is returned by CheckLimit when a tool's bucket is empty.
var ErrLimited = errors.New("rate limit exceeded")

// Tool names with configured limits.
const (
	ToolSimulate = "monty_simulate"
	ToolHistory  = "monty_history"
)

// ToolLimiters maps tool names to their token buckets.
type ToolLimiters map[string]*rate.Limiter

// NewToolLimiters creates the default set of per-tool rate limiters.
// A simulate call can pin every CPU for seconds, so it gets a small bucket.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		ToolSimulate: rate.NewLimiter(rate.Limit(6.0/60.0), 2), // 6/minute, burst 2
		ToolHistory:  rate.NewLimiter(rate.Limit(1.0), 10),     // 60/minute, burst 10
	}
}

// CheckLimit takes one token for toolName. Tools without a limiter are
// always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	return checkAt(limiters, toolName, time.Now())
}

func checkAt(limiters ToolLimiters, toolName string, now time.Time) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil
	}

	if !limiter.AllowN(now, 1) {
		return fmt.Errorf("%w for %s, please try again shortly", ErrLimited, toolName)
	}

	return nil
}
