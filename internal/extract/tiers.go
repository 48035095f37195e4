package extract

import (
	"slices"

	"slicerweb/internal/profiles"
)

// DefaultPopular lists the vendors placed in the popular tier.
var DefaultPopular = []string{
	"Creality", "Prusa", "BBL", "Anycubic", "Elegoo",
	"Voron", "Artillery", "FlashForge", "Snapmaker", "QIDI",
	"Kingroon", "TwoTrees", "Sovol", "Geeetech", "JGAurora",
	"Longer", "Monoprice", "Tronxy", "Ultimaker", "Wanhao",
}

// DefaultExtended lists the vendors placed in the extended tier.
var DefaultExtended = []string{
	"Anet", "BambuLab", "Builder", "CraftBot", "Dagoma",
	"Delta", "Easythreed", "Felix", "Flying_Bear", "FolgerTech",
	"Hephestos", "iFactory3D", "JGMaker", "Kywoo", "Leapfrog",
	"Lulzbot", "MakerBot", "Malyan", "Micromake", "Newmatter",
}

// Tiering assigns vendors to tiers. Vendors on neither list are complete.
type Tiering struct {
	Popular  []string
	Extended []string
}

// DefaultTiering returns the built-in lists.
func DefaultTiering() Tiering {
	return Tiering{Popular: DefaultPopular, Extended: DefaultExtended}
}

// TierOf returns the tier of a vendor.
func (t Tiering) TierOf(vendor string) profiles.Tier {
	switch {
	case slices.Contains(t.Popular, vendor):
		return profiles.TierPopular
	case slices.Contains(t.Extended, vendor):
		return profiles.TierExtended
	default:
		return profiles.TierComplete
	}
}

// Selection returns the vendor include list for a tier name: the popular or
// extended list, or nil (every vendor) for "all" and "".
func (t Tiering) Selection(tier string) []string {
	switch tier {
	case string(profiles.TierPopular):
		return t.Popular
	case string(profiles.TierExtended):
		return t.Extended
	default:
		return nil
	}
}
