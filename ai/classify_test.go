// ABOUTME: Table tests for completion error classification
package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want errorClass
	}{
		{"nil", nil, classOther},
		{"deadline sentinel", context.DeadlineExceeded, classTimeout},
		{"wrapped deadline", fmt.Errorf("attempt 1: %w", context.DeadlineExceeded), classTimeout},
		{"canceled sentinel", context.Canceled, classTimeout},
		{"deadline text", errors.New("Post \"...\": context deadline exceeded"), classTimeout},
		{"timeout text", errors.New("client timeout waiting for headers"), classTimeout},
		{"429 status", errors.New("error, status code: 429"), classQuota},
		{"quota text", errors.New("Quota exceeded for model"), classQuota},
		{"rate limit text", errors.New("Rate limit reached, retry later"), classQuota},
		{"404 status", errors.New("error, status code: 404"), classNotFound},
		{"not found text", errors.New("model Not Found"), classNotFound},
		{"bad request", errors.New("error, status code: 400"), classOther},
		{"auth failure", errors.New("error, status code: 401, invalid api key"), classOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.err))
		})
	}
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "timeout", classTimeout.String())
	assert.Equal(t, "quota", classQuota.String())
	assert.Equal(t, "not_found", classNotFound.String())
	assert.Equal(t, "error", classOther.String())
}
