package profiles

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"cogentcore.org/core/base/iox/jsonx"
	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"slicerweb/internal/common"
	"slicerweb/internal/diagnostic"
	"slicerweb/internal/slicerr"
)

// DefaultIndexURL is where the index lives in the storage layout.
const DefaultIndexURL = "/profiles/index.json"

// DefaultPrefetchConcurrency bounds parallel fetches during PrefetchTier.
const DefaultPrefetchConcurrency = 4

// Loader is the runtime profile catalog: the index plus a lazily filled
// vendor cache. It is safe for concurrent use.
type Loader struct {
	fetcher     Fetcher
	indexURL    string
	concurrency int
	logger      *slog.Logger

	mu         sync.RWMutex
	index      *Index
	vendors    map[string]*VendorProfile
	sizes      map[string]int64
	inflight   map[string]struct{}
	generation uint64

	indexGroup  singleflight.Group
	vendorGroup singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithIndexURL overrides DefaultIndexURL.
func WithIndexURL(u string) LoaderOption {
	return func(l *Loader) { l.indexURL = u }
}

// WithPrefetchConcurrency overrides DefaultPrefetchConcurrency.
func WithPrefetchConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader creates a Loader. A nil logger means slog.Default().
func NewLoader(fetcher Fetcher, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loader{
		fetcher:     fetcher,
		indexURL:    DefaultIndexURL,
		concurrency: DefaultPrefetchConcurrency,
		logger:      logger,
		vendors:     map[string]*VendorProfile{},
		sizes:       map[string]int64{},
		inflight:    map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoadIndex fetches the index once. Later calls return the cached index;
// a failed fetch is not cached. Concurrent callers share one fetch that
// outlives any single caller's cancellation.
func (l *Loader) LoadIndex(ctx context.Context) (*Index, error) {
	const op = "profiles.LoadIndex"

	if ix := l.currentIndex(); ix != nil {
		return ix, nil
	}

	ch := l.indexGroup.DoChan("index", func() (any, error) {
		return l.fetchIndex(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, l.indexURL, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			l.logger.ErrorContext(ctx, "failed to load profile index", slog.String("url", l.indexURL), slog.Any("error", res.Err))
			return nil, res.Err
		}

		return res.Val.(*Index), nil
	}
}

func (l *Loader) fetchIndex(ctx context.Context) (*Index, error) {
	if ix := l.currentIndex(); ix != nil {
		return ix, nil
	}

	body, err := l.fetcher.Fetch(ctx, l.indexURL)
	if err != nil {
		return nil, err
	}

	var ix Index
	if err := jsonx.Read(&ix, bytes.NewReader(body)); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "profiles.LoadIndex", l.indexURL, err)
	}

	if ix.Search == nil {
		ix.Search = map[string]string{}
	}

	diags := ValidateIndex(&ix)
	diags.Log(ctx, l.logger)

	l.mu.Lock()
	l.index = &ix
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "profile index loaded",
		slog.String("version", ix.Version),
		slog.Int("vendors", len(ix.Vendors())),
		slog.Int("printers", len(ix.Search)),
	)

	return &ix, nil
}

func (l *Loader) currentIndex() *Index {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.index
}

// Index returns the loaded index.
func (l *Loader) Index() (*Index, error) {
	ix := l.currentIndex()
	if ix == nil {
		return nil, errIndexNotLoaded("profiles.Index")
	}

	return ix, nil
}

// Ready reports whether the index is loaded.
func (l *Loader) Ready() bool {
	return l.currentIndex() != nil
}

func errIndexNotLoaded(op string) error {
	return slicerr.New(slicerr.KindNotReady, op, "", "profile index not loaded")
}

// Vendors returns every vendor in the index.
func (l *Loader) Vendors() ([]VendorMetadata, error) {
	ix, err := l.Index()
	if err != nil {
		return nil, err
	}

	return ix.Vendors(), nil
}

// VendorsByTier returns the vendors of one tier.
func (l *Loader) VendorsByTier(tier Tier) ([]VendorMetadata, error) {
	ix, err := l.Index()
	if err != nil {
		return nil, err
	}

	b := ix.Tiers.Bucket(tier)
	if b == nil {
		return nil, slicerr.New(slicerr.KindInvalid, "profiles.VendorsByTier", string(tier), "unknown tier")
	}

	return b.Vendors, nil
}

// VendorMetadata returns the index entry for a vendor id.
func (l *Loader) VendorMetadata(id string) (VendorMetadata, bool, error) {
	ix, err := l.Index()
	if err != nil {
		return VendorMetadata{}, false, err
	}

	v, _, ok := ix.Vendor(id)

	return v, ok, nil
}

// LoadVendor returns the vendor body, fetching it at most once across
// concurrent callers. Unknown ids are NotFound errors.
func (l *Loader) LoadVendor(ctx context.Context, id string) (*VendorProfile, error) {
	const op = "profiles.LoadVendor"

	ix, err := l.Index()
	if err != nil {
		return nil, err
	}

	if vp := l.cached(id); vp != nil {
		return vp, nil
	}

	meta, _, ok := ix.Vendor(id)
	if !ok {
		return nil, slicerr.New(slicerr.KindNotFound, op, id, "vendor not in index")
	}

	ch := l.vendorGroup.DoChan(id, func() (any, error) {
		return l.fetchVendor(context.WithoutCancel(ctx), meta)
	})

	select {
	case <-ctx.Done():
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, id, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*VendorProfile), nil
	}
}

func (l *Loader) cached(id string) *VendorProfile {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.vendors[id]
}

func (l *Loader) fetchVendor(ctx context.Context, meta VendorMetadata) (*VendorProfile, error) {
	const op = "profiles.LoadVendor"

	l.mu.Lock()
	if vp := l.vendors[meta.ID]; vp != nil {
		l.mu.Unlock()
		return vp, nil
	}

	gen := l.generation
	l.inflight[meta.ID] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inflight, meta.ID)
		l.mu.Unlock()
	}()

	l.logger.DebugContext(ctx, "loading vendor", slog.String("vendor", meta.ID), slog.Int64("size", meta.FileSize))

	body, err := l.fetcher.Fetch(ctx, meta.URL)
	if err != nil {
		l.logger.WarnContext(ctx, "vendor fetch failed", slog.String("vendor", meta.ID), slog.Any("error", err))
		return nil, err
	}

	var vp VendorProfile
	if err := jsonx.Read(&vp, bytes.NewReader(body)); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, op, meta.ID, err)
	}

	if vp.ID == "" {
		vp.ID = meta.ID
	}

	if !versionsMatch(vp.Version, meta.Version) {
		l.logger.WarnContext(ctx, "vendor version differs from index",
			slog.String("vendor", meta.ID),
			slog.String("index", meta.Version),
			slog.String("body", vp.Version),
		)
	}

	l.mu.Lock()
	if l.generation == gen {
		l.vendors[meta.ID] = &vp
		l.sizes[meta.ID] = int64(len(body))
	}
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "vendor loaded",
		slog.String("vendor", meta.ID),
		slog.Int("printers", len(vp.Printers)),
		slog.Int("filaments", len(vp.Filaments)),
	)

	return &vp, nil
}

// versionsMatch compares semantic versions, falling back to string
// equality for versions semver cannot parse.
func versionsMatch(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)

	if errA != nil || errB != nil {
		return a == b
	}

	return va.Equal(vb)
}

// FindVendorByPrinter returns the vendor owning an exact printer name.
func (l *Loader) FindVendorByPrinter(name string) (string, bool, error) {
	ix, err := l.Index()
	if err != nil {
		return "", false, err
	}

	vendor, ok := ix.Search[name]

	return vendor, ok, nil
}

// SearchPrinters returns printers whose name contains query, ignoring
// case, sorted by name.
func (l *Loader) SearchPrinters(query string) ([]PrinterMatch, error) {
	ix, err := l.Index()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := []PrinterMatch{}

	for _, name := range common.SortedKeys(ix.Search) {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, PrinterMatch{Printer: name, Vendor: ix.Search[name]})
		}
	}

	return out, nil
}

// PrefetchTier loads every vendor of a tier, loading the index first if
// needed. Individual failures are logged and reported, not returned.
func (l *Loader) PrefetchTier(ctx context.Context, tier Tier) (*PrefetchResult, error) {
	ix, err := l.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	b := ix.Tiers.Bucket(tier)
	if b == nil {
		return nil, slicerr.New(slicerr.KindInvalid, "profiles.PrefetchTier", string(tier), "unknown tier")
	}

	res := &PrefetchResult{Tier: tier, Loaded: []string{}}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, v := range b.Vendors {
		g.Go(func() error {
			_, err := l.LoadVendor(gctx, v.ID)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				l.logger.WarnContext(ctx, "prefetch failed", slog.String("vendor", v.ID), slog.Any("error", err))
				res.Failed = append(res.Failed, v.ID)

				return nil
			}

			res.Loaded = append(res.Loaded, v.ID)

			return nil
		})
	}

	_ = g.Wait()

	slices.Sort(res.Loaded)
	slices.Sort(res.Failed)

	l.logger.InfoContext(ctx, "tier prefetched",
		slog.String("tier", string(tier)),
		slog.Int("loaded", len(res.Loaded)),
		slog.Int("failed", len(res.Failed)),
	)

	return res, nil
}

// ClearCache drops every cached vendor. Loads in flight complete for
// their callers but are not cached.
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id := range l.inflight {
		l.vendorGroup.Forget(id)
	}

	l.vendors = map[string]*VendorProfile{}
	l.sizes = map[string]int64{}
	l.generation++
}

// CacheStats reports cache occupancy.
func (l *Loader) CacheStats() CacheStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, n := range l.sizes {
		total += n
	}

	return CacheStats{Cached: len(l.vendors), Loading: len(l.inflight), TotalSize: total}
}

// ValidateIndex checks an index for structural problems. None of them
// prevent serving it.
func ValidateIndex(ix *Index) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	if _, err := semver.NewVersion(ix.Version); err != nil {
		res.AddWarning(diagnostic.CodeUnparsedVersion, fmt.Sprintf("index version %q is not a semantic version", ix.Version), "index", "")
	}

	ids := map[string]Tier{}

	for _, t := range Tiers {
		for _, v := range ix.Tiers.Bucket(t).Vendors {
			if v.ID == "" {
				res.AddError(diagnostic.CodeEmptyKey, "vendor without id", string(t), "")
				continue
			}

			if prev, dup := ids[v.ID]; dup {
				res.AddWarning(diagnostic.CodeDuplicateVendor, fmt.Sprintf("vendor also listed in %s", prev), string(t), v.ID)
			}

			ids[v.ID] = t

			if v.URL == "" {
				res.AddError(diagnostic.CodeEmptyKey, "vendor without url", string(t), v.ID)
			}
		}
	}

	for _, printer := range common.SortedKeys(ix.Search) {
		if _, ok := ids[ix.Search[printer]]; !ok {
			res.AddWarning(diagnostic.CodeUnknownVendor,
				fmt.Sprintf("search entry points at unknown vendor %q", ix.Search[printer]), "search", printer)
		}
	}

	return res
}
