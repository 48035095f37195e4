package extract

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slicerweb/internal/diagnostic"
	"slicerweb/internal/profiles"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

// sourceTree is a two-vendor profile tree. Acme has one printer with two
// nozzle variants, a filament and a process; Loopy has a cyclic base.
func sourceTree() fstest.MapFS {
	return fstest.MapFS{
		"Acme.json": file(`{
			"name": "Acme",
			"version": "1.2.0",
			"machine_model_list": [
				{"name": "Acme One", "sub_path": "machine/Acme One.json"},
				{"name": "Acme Ghost", "sub_path": "machine/Acme Ghost.json"}
			],
			"filament_list": [{"name": "Acme PLA", "sub_path": "filament/Acme PLA.json"}],
			"process_list": [{"name": "0.20mm Standard", "sub_path": "process/0.20mm Standard.json"}]
		}`),
		"Acme/machine/fdm_machine_common.json": file(`{
			"name": "fdm_machine_common",
			"printable_height": "250",
			"retraction_length": "0.8",
			"machine_start_gcode": "G28"
		}`),
		"Acme/machine/Acme One.json": file(`{
			"type": "machine_model",
			"name": "Acme One",
			"model_id": "acme-one",
			"nozzle_diameter": "0.4;0.6",
			"bed_model": "acme_bed.stl",
			"default_materials": "Acme PLA;Generic PETG;"
		}`),
		"Acme/machine/Acme One 0.4 nozzle.json": file(`{
			"name": "Acme One 0.4 nozzle",
			"inherits": "fdm_machine_common",
			"printer_variant": "0.4",
			"nozzle_diameter": ["0.4"]
		}`),
		"Acme/machine/Acme One 0.6 nozzle.json": file(`{
			"name": "Acme One 0.6 nozzle",
			"inherits": "fdm_machine_common",
			"nozzle_diameter": ["0.6"],
			"retraction_length": "1.2"
		}`),
		"Acme/machine/Acme Ghost.json": file(`{"name": "Acme Ghost"}`),
		"Acme/filament/fdm_filament_pla.json": file(`{
			"name": "fdm_filament_pla",
			"filament_type": ["PLA+"],
			"nozzle_temperature": ["210"]
		}`),
		"Acme/filament/Acme PLA.json": file(`{
			"name": "Acme PLA",
			"inherits": "fdm_filament_pla",
			"hot_plate_temp": ["60"]
		}`),
		"Acme/process/0.20mm Standard.json": file(`{
			"name": "0.20mm Standard",
			"layer_height": "0.2",
			"inherits": "fdm_process_common"
		}`),

		"Loopy.json": file(`{
			"name": "Loopy",
			"version": "02.00.00.00",
			"machine_model_list": [{"name": "Loop", "sub_path": "machine/Loop.json"}]
		}`),
		"Loopy/machine/Loop.json":        file(`{"name": "Loop"}`),
		"Loopy/machine/Loop 0.4.json":    file(`{"name": "Loop 0.4", "inherits": "loop_a"}`),
		"Loopy/machine/loop_a.json":      file(`{"name": "loop_a", "inherits": "loop_b", "a": 1}`),
		"Loopy/machine/loop_b.json":      file(`{"name": "loop_b", "inherits": "loop_a", "b": 2}`),
		"Broken.json":                    file(`{not json`),
		"Broken/machine/x.json":          file(`{}`),
		"NoManifest/machine/orphan.json": file(`{}`),
	}
}

func newExtractor(t *testing.T, opts Options) (*Extractor, string) {
	t.Helper()

	out := t.TempDir()
	opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	return New(sourceTree(), out, opts, quietLogger()), out
}

func TestListVendors(t *testing.T) {
	e, _ := newExtractor(t, Options{})

	vendors, err := e.ListVendors()
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Broken", "Loopy"}, vendors)

	e, _ = newExtractor(t, Options{Vendors: []string{"Loopy", "Nobody"}})

	vendors, err = e.ListVendors()
	require.NoError(t, err)
	assert.Equal(t, []string{"Loopy"}, vendors)
}

func TestVendor_Printer(t *testing.T) {
	e, _ := newExtractor(t, Options{})

	vp, diags, err := e.Vendor(context.Background(), "Acme")
	require.NoError(t, err)
	assert.False(t, diags.HasErrors())

	assert.Equal(t, "Acme", vp.Name)
	assert.Equal(t, "1.2.0", vp.Version)

	require.Len(t, vp.Printers, 1, "Acme Ghost has no variants and is dropped")

	p := vp.Printers[0]
	assert.Equal(t, "acme-one", p.ID)
	assert.Equal(t, []float64{0.4, 0.6}, p.NozzleSizes)
	assert.Equal(t, "acme_bed.stl", p.BedModel)
	assert.Equal(t, []string{"Acme PLA", "Generic PETG"}, p.DefaultMaterials)

	require.Len(t, p.Variants, 2)

	v04, v06 := p.Variants[0], p.Variants[1]
	assert.Equal(t, "Acme One 0.4 nozzle", v04.Name)
	assert.Equal(t, 0.4, v04.Nozzle)
	assert.Equal(t, "G28", v04.StartGcode)
	assert.Equal(t, "250", v04.Config["printable_height"])
	assert.NotContains(t, v04.Config, "machine_start_gcode")
	assert.NotContains(t, v04.Config, "inherits")

	assert.Equal(t, 0.6, v06.Nozzle, "falls back to nozzle_diameter")
	assert.Equal(t, "1.2", v06.Config["retraction_length"], "child wins over base")
}

func TestVendor_FilamentAndProcess(t *testing.T) {
	e, _ := newExtractor(t, Options{})

	vp, diags, err := e.Vendor(context.Background(), "Acme")
	require.NoError(t, err)

	require.Len(t, vp.Filaments, 1)

	f := vp.Filaments[0]
	assert.Equal(t, "Acme PLA", f.Name)
	assert.Equal(t, "PLA+", f.Type)
	assert.Equal(t, []any{"210"}, f.Config["nozzle_temperature"])
	assert.Equal(t, []any{"60"}, f.Config["hot_plate_temp"])

	require.Len(t, vp.Processes, 1)
	assert.Equal(t, "0.2", vp.Processes[0].Config["layer_height"])

	missing := diags.WithCode(diagnostic.CodeInheritMissingBase)
	require.Len(t, missing, 1)
	assert.Equal(t, "fdm_process_common", missing[0].Key)
}

func TestVendor_Caps(t *testing.T) {
	e, _ := newExtractor(t, Options{MaxFilaments: 1, MaxProcesses: 1, MaxPrinters: 1})

	vp, _, err := e.Vendor(context.Background(), "Acme")
	require.NoError(t, err)

	assert.Len(t, vp.Printers, 1)
	assert.Len(t, vp.Filaments, 1)
	assert.Len(t, vp.Processes, 1)
}

func TestVendor_CycleIsDiagnosedNotFatal(t *testing.T) {
	e, _ := newExtractor(t, Options{})

	vp, diags, err := e.Vendor(context.Background(), "Loopy")
	require.NoError(t, err)

	assert.NotEmpty(t, diags.WithCode(diagnostic.CodeInheritCycle))
	assert.NotEmpty(t, diags.WithCode(diagnostic.CodeUnparsedVersion))

	require.Len(t, vp.Printers, 1)
	require.Len(t, vp.Printers[0].Variants, 1)
	assert.Equal(t, "Loop 0.4", vp.Printers[0].Variants[0].Name)
}

func TestVendor_UnreadableManifest(t *testing.T) {
	e, _ := newExtractor(t, Options{})

	_, _, err := e.Vendor(context.Background(), "Broken")
	assert.Error(t, err)
}

func TestRun_WritesLayout(t *testing.T) {
	e, out := newExtractor(t, Options{Tiering: Tiering{Popular: []string{"Acme"}}})

	report, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Broken"}, report.Skipped)
	assert.Equal(t, 2, report.Printers)

	data, err := os.ReadFile(filepath.Join(out, "index.json"))
	require.NoError(t, err)

	var ix profiles.Index
	require.NoError(t, json.Unmarshal(data, &ix))

	assert.Equal(t, IndexVersion, ix.Version)
	assert.Equal(t, "2026-01-02T03:04:05Z", ix.GeneratedAt)

	require.Len(t, ix.Tiers.Popular.Vendors, 1)

	acme := ix.Tiers.Popular.Vendors[0]
	assert.Equal(t, "/profiles/popular/Acme.json", acme.URL)
	assert.Equal(t, 1, acme.PrinterCount)
	assert.Positive(t, acme.FileSize)

	require.Len(t, ix.Tiers.Complete.Vendors, 1)
	assert.Equal(t, "Loopy", ix.Tiers.Complete.Vendors[0].ID)
	assert.Empty(t, ix.Tiers.Extended.Vendors)

	assert.Equal(t, "Acme", ix.Search["Acme One"])
	assert.Equal(t, "Acme", ix.Search["Acme One Acme One 0.4 nozzle"])
	assert.Equal(t, "Loopy", ix.Search["Loop"])

	body, err := os.ReadFile(filepath.Join(out, "popular", "Acme.json"))
	require.NoError(t, err)
	assert.EqualValues(t, len(body), acme.FileSize)

	var vp profiles.VendorProfile
	require.NoError(t, json.Unmarshal(body, &vp))
	assert.Equal(t, "acme-one", vp.Printers[0].ID)
}

func TestRun_OutputServesLoader(t *testing.T) {
	e, out := newExtractor(t, Options{})

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	loader := profiles.NewLoader(profiles.NewDirFetcher(out, profiles.URLPrefix), quietLogger())
	ctx := context.Background()

	_, err = loader.LoadIndex(ctx)
	require.NoError(t, err)

	vendor, found, err := loader.FindVendorByPrinter("Acme One")
	require.NoError(t, err)
	require.True(t, found)

	vp, err := loader.LoadVendor(ctx, vendor)
	require.NoError(t, err)
	assert.Len(t, vp.Printers, 1)
}

func TestTiering(t *testing.T) {
	tiers := DefaultTiering()

	assert.Equal(t, profiles.TierPopular, tiers.TierOf("Creality"))
	assert.Equal(t, profiles.TierExtended, tiers.TierOf("Lulzbot"))
	assert.Equal(t, profiles.TierComplete, tiers.TierOf("Acme"))

	assert.Equal(t, DefaultPopular, tiers.Selection("popular"))
	assert.Nil(t, tiers.Selection("all"))
}

func TestSplitListAndParseFloats(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a; b;"))
	assert.Equal(t, []string{"x", "y", "z"}, splitList([]any{"x", "y;z", 3}))
	assert.Empty(t, splitList(nil))

	assert.Equal(t, []float64{0.4, 0.6}, parseFloats("0.4;oops;0.6"))
	assert.Equal(t, "PLA", firstString([]any{"PLA", "PETG"}))
}
