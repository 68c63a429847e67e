// ABOUTME: Substring-based completion error classification
// ABOUTME: The single place where provider error text patterns live
package ai

import (
	"context"
	"errors"
	"strings"
)

type errorClass int

const (
	classOther errorClass = iota
	classTimeout
	classQuota
	classNotFound
)

// classify buckets a provider error by inspecting its text. Brittle by
// nature, so every pattern is here and nowhere else. The chat loop
// falls back on timeout/quota; content generation additionally falls
// back on not-found.
func classify(err error) errorClass {
	if err == nil {
		return classOther
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return classTimeout
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return classQuota
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return classNotFound
	default:
		return classOther
	}
}

func (c errorClass) String() string {
	switch c {
	case classTimeout:
		return "timeout"
	case classQuota:
		return "quota"
	case classNotFound:
		return "not_found"
	default:
		return "error"
	}
}
