package llmdispatch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-world-simulator/llmdispatch"
)

func TestParseJSONObjectPlainJSON(t *testing.T) {
	obj, err := llmdispatch.ParseJSONObject(`{"status": "ok", "count": 3}`)
	require.NoError(t, err)
	require.Equal(t, "ok", obj["status"])
}

func TestParseJSONObjectFencedBlock(t *testing.T) {
	raw := "Here is my answer:\n```json\n{\"status\": \"ok\"}\n```\nThanks."
	obj, err := llmdispatch.ParseJSONObject(raw)
	require.NoError(t, err)
	require.Equal(t, "ok", obj["status"])
}

func TestParseJSONObjectJSON5TrailingCommaAndUnquotedKeys(t *testing.T) {
	raw := "```json5\n{status: 'ok', count: 3,}\n```"
	obj, err := llmdispatch.ParseJSONObject(raw)
	require.NoError(t, err)
	require.Equal(t, "ok", obj["status"])
}

func TestParseJSONObjectFailsOnGarbage(t *testing.T) {
	_, err := llmdispatch.ParseJSONObject("this is not json at all")
	require.Error(t, err)
}

func TestParseJSONObjectPrefersFirstValidFencedBlock(t *testing.T) {
	raw := "```json\nnot valid\n```\n```json\n{\"status\":\"ok\"}\n```"
	obj, err := llmdispatch.ParseJSONObject(raw)
	require.NoError(t, err)
	require.Equal(t, "ok", obj["status"])
}
