package diagnostic

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_Collect(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.Empty())
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddInfo(CodeCatchAllSection, "placed in advanced", "schema", "wipe_tower_x")
	assert.False(t, d.Empty())
	assert.True(t, d.IsValid())

	d.AddWarning(CodeUnparsedVersion, "not semver", "Acme", "")
	d.AddError(CodeInheritCycle, "inherits cycle", "Acme", "fdm_a")

	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, SeverityError, all[0].Severity)
	assert.Equal(t, SeverityWarning, all[1].Severity)
	assert.Equal(t, SeverityInfo, all[2].Severity)

	assert.Len(t, d.WithCode(CodeInheritCycle), 1)
	assert.Empty(t, d.WithCode(CodeEmptyKey))

	assert.EqualError(t, d.Error(), "[Acme] fdm_a: [inherit_cycle] inherits cycle")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddWarning(CodeOrphanSection, "unknown section", "", "x")
	b.AddError(CodeDuplicateVendor, "listed twice", "index", "Acme")
	b.AddError(CodeUnknownVendor, "missing", "index", "Zed")

	a.Merge(b)

	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
	assert.Contains(t, a.Error().Error(), "; ")
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{name: "bare", d: Diagnostic{Message: "m"}, want: "m"},
		{name: "code", d: Diagnostic{Code: "c", Message: "m"}, want: "[c] m"},
		{name: "scope and key", d: Diagnostic{Code: "c", Message: "m", Scope: "s", Key: "k"}, want: "[s] k: [c] m"},
		{name: "key only", d: Diagnostic{Message: "m", Key: "k"}, want: "k: m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestDiagnostics_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var d Diagnostics
	d.AddInfo(CodeCatchAllSection, "hidden at warn", "schema", "a")
	d.AddWarning(CodeOrphanSection, "unknown section", "schema", "b")

	d.Log(context.Background(), logger)

	out := buf.String()
	assert.Contains(t, out, "unknown section")
	assert.Contains(t, out, "code=orphan_section")
	assert.Contains(t, out, "key=b")
	assert.NotContains(t, out, "hidden at warn")
}

func TestSeverity_MarshalText(t *testing.T) {
	b, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))
	assert.Equal(t, "unknown", Severity(9).String())
}
