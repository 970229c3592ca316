package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSONOutput(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONOutput("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONOutput("```\n{\"a\":1}\n```  "))
	assert.Equal(t, `{"a":1}`, CleanJSONOutput(`  {"a":1}`))
}

func TestDecodeJSONObject(t *testing.T) {
	var out struct {
		EnhancedPrompt string `json:"enhancedPrompt"`
	}
	require.NoError(t, DecodeJSONObject("```json\n{\"enhancedPrompt\":\"a rich bakery\"}\n```", &out))
	assert.Equal(t, "a rich bakery", out.EnhancedPrompt)

	assert.Error(t, DecodeJSONObject("plain prose, no json", &out))
}
