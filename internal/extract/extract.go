package extract

import (
	"cmp"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/fsx"
	"cogentcore.org/core/base/iox/jsonx"
	"cogentcore.org/core/base/strcase"
	"github.com/Masterminds/semver/v3"

	"slicerweb/internal/common"
	"slicerweb/internal/diagnostic"
	"slicerweb/internal/inherit"
	"slicerweb/internal/profiles"
	"slicerweb/internal/slicerr"
)

// IndexVersion is the storage layout version written to index.json.
const IndexVersion = "1.0.0"

// defaultNozzle is used when a model or variant names no nozzle.
const defaultNozzle = 0.4

// gcodeKeys are lifted out of variant configs into their own fields.
var gcodeKeys = []string{
	"machine_start_gcode",
	"machine_end_gcode",
	"machine_pause_gcode",
	"change_filament_gcode",
}

// Options configures an Extractor.
type Options struct {
	// Vendors restricts extraction; nil means every vendor in the source.
	Vendors []string
	Tiering Tiering
	// Per-vendor caps; 0 means unlimited.
	MaxPrinters  int
	MaxFilaments int
	MaxProcesses int
	// Now stamps index.json; nil means time.Now.
	Now func() time.Time
}

// Report summarizes a run.
type Report struct {
	Index       *profiles.Index
	Printers    int
	Filaments   int
	Processes   int
	TierSizes   map[profiles.Tier]int64
	Skipped     []string
	Diagnostics diagnostic.Diagnostics
}

// Extractor reads a vendor profile tree and writes the storage layout.
type Extractor struct {
	src    fs.FS
	out    string
	opts   Options
	logger *slog.Logger
}

// New creates an Extractor reading src and writing under out.
// A nil logger means slog.Default().
func New(src fs.FS, out string, opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.Tiering.Popular == nil && opts.Tiering.Extended == nil {
		opts.Tiering = DefaultTiering()
	}

	return &Extractor{src: src, out: out, opts: opts, logger: logger}
}

// ListVendors returns the vendors of the source tree: directories that
// have a sibling <name>.json manifest, filtered by Options.Vendors.
func (e *Extractor) ListVendors() ([]string, error) {
	entries, err := fs.ReadDir(e.src, ".")
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "extract.ListVendors", "", err)
	}

	var vendors []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if e.opts.Vendors != nil && !slices.Contains(e.opts.Vendors, name) {
			continue
		}

		if ok, err := fsx.FileExistsFS(e.src, name+".json"); err != nil || !ok {
			continue
		}

		vendors = append(vendors, name)
	}

	return vendors, nil
}

// Run extracts every selected vendor and writes the layout.
func (e *Extractor) Run(ctx context.Context) (*Report, error) {
	vendors, err := e.ListVendors()
	if err != nil {
		return nil, err
	}

	e.logger.Info("extracting profiles", slog.Int("vendors", len(vendors)), slog.String("output", e.out))

	for _, t := range profiles.Tiers {
		if err := os.MkdirAll(filepath.Join(e.out, string(t)), 0o755); err != nil {
			return nil, slicerr.Wrap(slicerr.KindConfiguration, "extract.Run", e.out, err)
		}
	}

	report := &Report{
		Index: &profiles.Index{
			Version:     IndexVersion,
			GeneratedAt: e.opts.Now().UTC().Format(time.RFC3339),
			Tiers: profiles.TierSet{
				Popular:  profiles.TierBucket{Vendors: []profiles.VendorMetadata{}},
				Extended: profiles.TierBucket{Vendors: []profiles.VendorMetadata{}},
				Complete: profiles.TierBucket{Vendors: []profiles.VendorMetadata{}},
			},
			Search: map[string]string{},
		},
		TierSizes: map[profiles.Tier]int64{},
	}

	for _, name := range vendors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vp, diags, err := e.Vendor(ctx, name)
		report.Diagnostics.Merge(diags)

		if err != nil {
			e.logger.Warn("skipping vendor", slog.String("vendor", name), slog.Any("error", err))
			report.Skipped = append(report.Skipped, name)

			continue
		}

		if err := e.write(report, vp); err != nil {
			return nil, err
		}
	}

	indexPath := filepath.Join(e.out, "index.json")
	if err := writeJSONFile(indexPath, report.Index); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "extract.Run", indexPath, err)
	}

	e.logger.Info("extraction complete",
		slog.Int("vendors", len(report.Index.Vendors())),
		slog.Int("printers", report.Printers),
		slog.Int("filaments", report.Filaments),
		slog.Int("processes", report.Processes),
		slog.Int("skipped", len(report.Skipped)))

	return report, nil
}

func (e *Extractor) write(report *Report, vp *profiles.VendorProfile) error {
	tier := e.opts.Tiering.TierOf(vp.ID)
	rel := path.Join(string(tier), vp.ID+".json")
	file := filepath.Join(e.out, filepath.FromSlash(rel))

	if err := writeJSONFile(file, vp); err != nil {
		return slicerr.Wrap(slicerr.KindConfiguration, "extract.write", file, err)
	}

	var size int64
	if info, err := os.Stat(file); errors.Log(err) == nil {
		size = info.Size()
	}

	bucket := report.Index.Tiers.Bucket(tier)
	bucket.Vendors = append(bucket.Vendors, profiles.VendorMetadata{
		ID:            vp.ID,
		Name:          vp.Name,
		Version:       vp.Version,
		PrinterCount:  len(vp.Printers),
		FilamentCount: len(vp.Filaments),
		ProcessCount:  len(vp.Processes),
		FileSize:      size,
		URL:           profiles.URLPrefix + "/" + rel,
	})

	for _, p := range vp.Printers {
		report.Index.Search[p.Name] = vp.ID

		for _, v := range p.Variants {
			report.Index.Search[p.Name+" "+v.Name] = vp.ID
		}
	}

	report.Printers += len(vp.Printers)
	report.Filaments += len(vp.Filaments)
	report.Processes += len(vp.Processes)
	report.TierSizes[tier] += size

	e.logger.Info("vendor written",
		slog.String("vendor", vp.ID),
		slog.String("tier", string(tier)),
		slog.Int64("bytes", size))

	return nil
}

// Vendor extracts one vendor without writing anything.
func (e *Extractor) Vendor(ctx context.Context, name string) (*profiles.VendorProfile, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	var m Manifest
	if err := readJSON(e.src, name+".json", &m); err != nil {
		return nil, diags, slicerr.Wrap(slicerr.KindConfiguration, "extract.Vendor", name, err)
	}

	vendorFS, err := fs.Sub(e.src, name)
	if err != nil {
		return nil, diags, slicerr.Wrap(slicerr.KindConfiguration, "extract.Vendor", name, err)
	}

	bases, lint := e.loadBases(vendorFS, name, &diags)

	_, graphDiags := inherit.CheckGraph(lint)
	diags.Merge(graphDiags)

	resolver := inherit.NewResolver(bases, e.logger.With(slog.String("vendor", name)))

	vp := &profiles.VendorProfile{
		ID:        name,
		Name:      cmp.Or(m.Name, name),
		Version:   e.version(name, m.Version, &diags),
		Printers:  []profiles.PrinterProfile{},
		Filaments: []profiles.FilamentProfile{},
		Processes: []profiles.ProcessProfile{},
	}

	machines := e.machineFiles(vendorFS)

	for _, model := range common.Cap(m.MachineModels, e.opts.MaxPrinters) {
		if p, ok := e.printer(ctx, vendorFS, resolver, machines, model, &diags); ok {
			vp.Printers = append(vp.Printers, p)
		}
	}

	for _, entry := range common.Cap(m.Filaments, e.opts.MaxFilaments) {
		if f, ok := e.filament(ctx, vendorFS, resolver, entry, &diags); ok {
			vp.Filaments = append(vp.Filaments, f)
		}
	}

	for _, entry := range common.Cap(m.Processes, e.opts.MaxProcesses) {
		if p, ok := e.process(ctx, vendorFS, resolver, entry, &diags); ok {
			vp.Processes = append(vp.Processes, p)
		}
	}

	e.logger.Debug("vendor extracted",
		slog.String("vendor", name),
		slog.Int("printers", len(vp.Printers)),
		slog.Int("filaments", len(vp.Filaments)),
		slog.Int("processes", len(vp.Processes)))

	return vp, diags, nil
}

// loadBases reads every preset of the vendor. The lookup table is keyed by
// preset name and, where that does not collide, by file stem; the lint
// table is keyed by name only.
func (e *Extractor) loadBases(vendorFS fs.FS, vendor string, diags *diagnostic.Diagnostics) (inherit.Bases, inherit.Bases) {
	bases := inherit.Bases{}
	lint := inherit.Bases{}
	stems := map[string]inherit.Profile{}

	for _, dir := range []string{dirMachine, dirFilament, dirProcess} {
		files, err := fs.Glob(vendorFS, dir+"/*.json")
		if err != nil {
			continue
		}

		for _, file := range files {
			p, err := readProfile(vendorFS, file)
			if err != nil {
				diags.AddWarning(diagnostic.CodeUnreadableFile, err.Error(), vendor, file)

				continue
			}

			name := cmp.Or(p.Name(), stem(file))
			bases[name] = p
			lint[name] = p
			stems[stem(file)] = p
		}
	}

	for s, p := range stems {
		if _, taken := bases[s]; !taken {
			bases[s] = p
		}
	}

	return bases, lint
}

func (e *Extractor) version(vendor, raw string, diags *diagnostic.Diagnostics) string {
	if raw == "" {
		return IndexVersion
	}

	if _, err := semver.NewVersion(raw); err != nil {
		diags.AddWarning(diagnostic.CodeUnparsedVersion,
			fmt.Sprintf("version %q is not semantic: %v", raw, err), vendor, "version")
	}

	return raw
}

// machineFiles lists machine preset file names in directory order.
func (e *Extractor) machineFiles(vendorFS fs.FS) []string {
	entries, err := fs.ReadDir(vendorFS, dirMachine)
	if err != nil {
		return nil
	}

	var names []string

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}

	return names
}

func (e *Extractor) printer(
	ctx context.Context,
	vendorFS fs.FS,
	resolver *inherit.Resolver,
	machines []string,
	model Entry,
	diags *diagnostic.Diagnostics,
) (profiles.PrinterProfile, bool) {
	data, err := readProfile(vendorFS, model.SubPath)
	if err != nil {
		diags.AddWarning(diagnostic.CodeUnreadableFile, err.Error(), model.Name, model.SubPath)

		return profiles.PrinterProfile{}, false
	}

	nozzles := parseFloats(data["nozzle_diameter"])
	if len(nozzles) == 0 {
		nozzles = []float64{defaultNozzle}
	}

	p := profiles.PrinterProfile{
		ID:               cmp.Or(data.String("model_id"), strcase.ToKebab(model.Name)),
		Name:             model.Name,
		NozzleSizes:      nozzles,
		BedModel:         data.String("bed_model"),
		BedTexture:       data.String("bed_texture"),
		DefaultMaterials: splitList(data["default_materials"]),
	}

	modelFile := path.Base(model.SubPath)

	for _, file := range machines {
		if file == modelFile || !strings.HasPrefix(file, model.Name) {
			continue
		}

		raw, err := readProfile(vendorFS, path.Join(dirMachine, file))
		if err != nil {
			diags.AddWarning(diagnostic.CodeUnreadableFile, err.Error(), model.Name, file)

			continue
		}

		p.Variants = append(p.Variants, variant(resolver.Resolve(ctx, raw), file))
	}

	return p, len(p.Variants) > 0
}

func variant(resolved inherit.Profile, file string) profiles.PrinterVariant {
	v := profiles.PrinterVariant{
		Name:                cmp.Or(resolved.Name(), stem(file)),
		Nozzle:              nozzleOf(resolved),
		StartGcode:          resolved.String("machine_start_gcode"),
		EndGcode:            resolved.String("machine_end_gcode"),
		PauseGcode:          resolved.String("machine_pause_gcode"),
		ChangeFilamentGcode: resolved.String("change_filament_gcode"),
	}

	config := resolved.Clone()
	for _, k := range gcodeKeys {
		delete(config, k)
	}

	v.Config = config

	return v
}

func nozzleOf(p inherit.Profile) float64 {
	if f, err := strconv.ParseFloat(strings.TrimSpace(p.String("printer_variant")), 64); err == nil {
		return f
	}

	if list := parseFloats(p["nozzle_diameter"]); len(list) > 0 {
		return list[0]
	}

	return defaultNozzle
}

func (e *Extractor) filament(
	ctx context.Context,
	vendorFS fs.FS,
	resolver *inherit.Resolver,
	entry Entry,
	diags *diagnostic.Diagnostics,
) (profiles.FilamentProfile, bool) {
	raw, err := readProfile(vendorFS, entry.SubPath)
	if err != nil {
		diags.AddWarning(diagnostic.CodeUnreadableFile, err.Error(), entry.Name, entry.SubPath)

		return profiles.FilamentProfile{}, false
	}

	resolved := resolver.Resolve(ctx, raw)

	return profiles.FilamentProfile{
		Name:   entry.Name,
		Type:   cmp.Or(firstString(resolved["filament_type"]), "PLA"),
		Config: resolved,
	}, true
}

func (e *Extractor) process(
	ctx context.Context,
	vendorFS fs.FS,
	resolver *inherit.Resolver,
	entry Entry,
	diags *diagnostic.Diagnostics,
) (profiles.ProcessProfile, bool) {
	raw, err := readProfile(vendorFS, entry.SubPath)
	if err != nil {
		diags.AddWarning(diagnostic.CodeUnreadableFile, err.Error(), entry.Name, entry.SubPath)

		return profiles.ProcessProfile{}, false
	}

	return profiles.ProcessProfile{Name: entry.Name, Config: resolver.Resolve(ctx, raw)}, true
}

func writeJSONFile(file string, v any) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := jsonx.WriteIndent(v, f); err != nil {
		f.Close()

		return err
	}

	return f.Close()
}
