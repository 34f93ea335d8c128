// cmd/collector/registers_test.go
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/inverter-collector/internal/register"
)

func TestPrintRegisters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRegisters(&buf, false))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, len(register.All())+1)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, buf.String(), "MODEL")
}

func TestPrintRegisters_ReadableOnly(t *testing.T) {
	var all, readable bytes.Buffer
	require.NoError(t, printRegisters(&all, false))
	require.NoError(t, printRegisters(&readable, true))

	n := 0
	for _, d := range register.All() {
		if d.Access.Readable() {
			n++
		}
	}
	lines := strings.Split(strings.TrimRight(readable.String(), "\n"), "\n")
	assert.Len(t, lines, n+1)
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"run", "info", "registers"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}
