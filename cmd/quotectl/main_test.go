package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return stdout.String(), stderr.String()
}

func TestQuoteCommand_JSON(t *testing.T) {
	out, _ := run(t, "quote", "--sqft", "750", "--bedrooms", "1", "--bathrooms", "1",
		"--frequency", "bi-weekly", "--tip", "15", "--json")

	var got quoteOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(135), got.Amount)
	assert.Equal(t, int64(13500), got.AmountMinorUnits)
	assert.Equal(t, "regular-cleaning", got.ServiceID)
}

func TestQuoteCommand_TextAndUnknownExtra(t *testing.T) {
	out, errOut := run(t, "quote", "-s", "Deep Cleaning", "--extras", "inside_oven,gold_plating")

	assert.Contains(t, out, "Service type: Deep Cleaning")
	assert.Contains(t, out, "Total: 75 USD")
	assert.Contains(t, out, "Checkout service: deep-cleaning")
	assert.Contains(t, errOut, `unknown extra "gold_plating"`)
}

func TestServicesCommand(t *testing.T) {
	out, _ := run(t, "services")
	assert.Contains(t, out, "regular-cleaning")
	assert.Contains(t, out, "150.00 USD")

	out, _ = run(t, "services", "--json")
	var list []serviceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 4)
}

func TestRejectsPositionalArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"quote", "extra"})

	assert.Error(t, cmd.Execute())
}
