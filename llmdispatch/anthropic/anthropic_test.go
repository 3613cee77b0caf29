package anthropic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch/anthropic"
)

func TestNewRejectsNilClient(t *testing.T) {
	_, err := anthropic.New(nil, 0)
	require.Error(t, err)
}

func TestNewFromAPIKeyRequiresKey(t *testing.T) {
	_, err := anthropic.NewFromAPIKey("", 4096)
	require.Error(t, err)
}
