package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
	assert.False(t, ShouldRetry(context.Canceled))
	assert.False(t, ShouldRetry(errors.New("invalid api key")))

	assert.True(t, ShouldRetry(errors.New("Rate limit reached for gpt-4o")))
	assert.True(t, ShouldRetry(fmt.Errorf("call: %w", context.DeadlineExceeded)))
	assert.True(t, ShouldRetry(errors.New("read tcp: connection reset by peer")))

	assert.True(t, ShouldRetry(&openai.APIError{HTTPStatusCode: 503, Message: "overloaded"}))
	assert.True(t, ShouldRetry(&openai.APIError{HTTPStatusCode: 429, Message: "slow down"}))
	assert.False(t, ShouldRetry(&openai.APIError{HTTPStatusCode: 400, Message: "bad request"}))
	assert.True(t, ShouldRetry(fmt.Errorf("wrapped: %w", &openai.RequestError{HTTPStatusCode: 502, Err: errors.New("bad gateway")})))
}
