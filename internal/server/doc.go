// Package server exposes the schema, the profile catalog and slicing over
// HTTP.
//
//	GET    /healthz
//	GET    /api/v1/schema
//	POST   /api/v1/settings/validate
//	GET    /api/v1/profiles
//	GET    /api/v1/profiles/tiers/{tier}
//	POST   /api/v1/profiles/tiers/{tier}/prefetch
//	GET    /api/v1/profiles/vendors/{vendorID}
//	GET    /api/v1/profiles/cache
//	DELETE /api/v1/profiles/cache
//	GET    /api/v1/printers?q=
//	GET    /api/v1/printers/vendor?name=
//	POST   /api/v1/slice
//	GET    /api/v1/slice/last
//	GET    /profiles/*
//
// Failures are JSON objects {"error", "message", "requestId"} with the
// status derived from the error kind.
package server
