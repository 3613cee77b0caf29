package openai_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch/openai"
)

func TestNewRejectsNilClient(t *testing.T) {
	_, err := openai.New(nil)
	require.Error(t, err)
}

func TestNewFromConfigRequiresAPIKey(t *testing.T) {
	_, err := openai.NewFromConfig("https://api.example.com", "")
	require.Error(t, err)
}
