package profiles

import (
	"slicerweb/internal/slicerr"
)

// Tier is a popularity bucket used to stage profile loading.
type Tier string

const (
	TierPopular  Tier = "popular"
	TierExtended Tier = "extended"
	TierComplete Tier = "complete"
)

// Tiers lists the tiers from most to least popular.
var Tiers = []Tier{TierPopular, TierExtended, TierComplete}

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, nil
		}
	}

	return "", slicerr.New(slicerr.KindInvalid, "profiles.ParseTier", s, "unknown tier")
}

// VendorMetadata describes one vendor body in the index.
type VendorMetadata struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Version       string `json:"version"`
	PrinterCount  int    `json:"printerCount"`
	FilamentCount int    `json:"filamentCount"`
	ProcessCount  int    `json:"processCount"`
	FileSize      int64  `json:"fileSize"`
	URL           string `json:"url"`
}

// TierBucket holds the vendors of one tier.
type TierBucket struct {
	Vendors []VendorMetadata `json:"vendors"`
}

// TierSet holds the three tier buckets.
type TierSet struct {
	Popular  TierBucket `json:"popular"`
	Extended TierBucket `json:"extended"`
	Complete TierBucket `json:"complete"`
}

// Bucket returns the bucket for t, or nil for an unknown tier.
func (ts *TierSet) Bucket(t Tier) *TierBucket {
	switch t {
	case TierPopular:
		return &ts.Popular
	case TierExtended:
		return &ts.Extended
	case TierComplete:
		return &ts.Complete
	default:
		return nil
	}
}

// Index is the profile catalog. It is read-only once loaded.
type Index struct {
	Version     string  `json:"version"`
	GeneratedAt string  `json:"generatedAt"`
	Tiers       TierSet `json:"tiers"`
	// Search maps printer display names to vendor ids.
	Search map[string]string `json:"search"`
}

// Vendors returns every vendor, most popular tier first.
func (ix *Index) Vendors() []VendorMetadata {
	var out []VendorMetadata
	for _, t := range Tiers {
		out = append(out, ix.Tiers.Bucket(t).Vendors...)
	}

	return out
}

// Vendor returns the metadata and tier of a vendor id.
func (ix *Index) Vendor(id string) (VendorMetadata, Tier, bool) {
	for _, t := range Tiers {
		for _, v := range ix.Tiers.Bucket(t).Vendors {
			if v.ID == id {
				return v, t, true
			}
		}
	}

	return VendorMetadata{}, "", false
}

// VendorProfile is one vendor body.
type VendorProfile struct {
	ID        string            `json:"id,omitempty"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Printers  []PrinterProfile  `json:"printers"`
	Filaments []FilamentProfile `json:"filaments"`
	Processes []ProcessProfile  `json:"processes"`
}

// PrinterProfile is a printer model with its physical variants.
type PrinterProfile struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	NozzleSizes      []float64        `json:"nozzleSizes"`
	BedModel         string           `json:"bedModel,omitempty"`
	BedTexture       string           `json:"bedTexture,omitempty"`
	DefaultMaterials []string         `json:"defaultMaterials,omitempty"`
	Variants         []PrinterVariant `json:"variants,omitempty"`
}

// PrinterVariant is a fully resolved machine configuration, for example
// one nozzle diameter of a model.
type PrinterVariant struct {
	Name                string         `json:"name"`
	Nozzle              float64        `json:"nozzle"`
	Config              map[string]any `json:"config"`
	StartGcode          string         `json:"startGcode,omitempty"`
	EndGcode            string         `json:"endGcode,omitempty"`
	PauseGcode          string         `json:"pauseGcode,omitempty"`
	ChangeFilamentGcode string         `json:"changeFilamentGcode,omitempty"`
}

// FilamentProfile is a resolved filament preset.
type FilamentProfile struct {
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Config map[string]any `json:"config"`
}

// ProcessProfile is a resolved process (quality) preset.
type ProcessProfile struct {
	Name   string         `json:"name"`
	Config map[string]any `json:"config"`
}

// PrinterMatch is one search hit.
type PrinterMatch struct {
	Printer string `json:"printer"`
	Vendor  string `json:"vendor"`
}

// CacheStats summarizes the vendor cache.
type CacheStats struct {
	Cached    int   `json:"cached"`
	Loading   int   `json:"loading"`
	TotalSize int64 `json:"totalSize"`
}

// PrefetchResult lists which vendors a tier prefetch loaded.
type PrefetchResult struct {
	Tier   Tier     `json:"tier"`
	Loaded []string `json:"loaded"`
	Failed []string `json:"failed,omitempty"`
}
