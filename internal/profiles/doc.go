// Package profiles serves the tiered vendor profile catalog.
//
// The catalog is a small index (index.json) plus one body per vendor
// (<tier>/<vendor>.json), all produced offline with inheritance already
// resolved. A Loader fetches the index once and vendor bodies lazily;
// concurrent requests for the same vendor share one fetch, and a failed
// fetch is not cached so a later call retries.
//
// Every catalog operation other than LoadIndex and PrefetchTier fails with
// a NotReady error until the index has been loaded.
package profiles
