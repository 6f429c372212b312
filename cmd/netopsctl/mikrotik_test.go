package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babasida246/NetOpsAI-sub007/pkg/mikrotik"
)

func TestCompileIntentFile(t *testing.T) {
	out, err := compileIntentFile("../../pkg/mikrotik/testdata/core-router.yml")
	require.NoError(t, err)
	assert.Contains(t, out.Config, "core-1")
	assert.NotEmpty(t, out.Rollback)

	var buf bytes.Buffer
	printPlan(&buf, out)
	assert.Contains(t, buf.String(), "MODULE")
	assert.Contains(t, buf.String(), "system")
	assert.Contains(t, buf.String(), "Risk: "+string(out.Risk.Level))
}

func TestCompileIntentFileMissing(t *testing.T) {
	_, err := compileIntentFile("testdata/does-not-exist.yml")
	assert.Error(t, err)
}

func TestPrintReport(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		var buf bytes.Buffer
		assert.True(t, printReport(&buf, mikrotik.Report{Valid: true}))
		assert.Equal(t, "No findings.\n", buf.String())
	})

	t.Run("findings", func(t *testing.T) {
		var buf bytes.Buffer
		valid := printReport(&buf, mikrotik.Report{
			Errors:   []mikrotik.Message{{ID: "firewall.input", Message: "No input drop rule"}},
			Warnings: []mikrotik.Message{{ID: "routeros.version", Message: "Unsupported version", Field: "version"}},
		})
		assert.False(t, valid)
		assert.Contains(t, buf.String(), "SEVERITY")
		assert.Contains(t, buf.String(), "firewall.input")
		assert.Contains(t, buf.String(), "warning")
	})
}
