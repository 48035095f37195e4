package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"slicerweb/internal/diagnostic"
	"slicerweb/internal/profiles"
	"slicerweb/internal/slicerr"
)

// suggestionCount bounds "did you mean" lists.
const suggestionCount = 5

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	sc, err := s.currentSchema()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, sc)
}

type validation struct {
	Valid       bool                    `json:"valid"`
	Diagnostics *diagnostic.Diagnostics `json:"diagnostics"`
}

func (s *Server) validateSettings(w http.ResponseWriter, r *http.Request) {
	sc, err := s.currentSchema()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var settings map[string]any
	if err := s.decodeJSON(w, r, &settings); err != nil {
		s.writeError(w, r, err)
		return
	}

	diags := sc.Validate(settings)

	s.writeJSON(w, http.StatusOK, validation{Valid: diags.IsValid(), Diagnostics: diags})
}

func (s *Server) loader() (*profiles.Loader, error) {
	if s.profiles == nil {
		return nil, slicerr.New(slicerr.KindNotReady, "server.profiles", "", "profile catalog is not configured")
	}

	return s.profiles, nil
}

func (s *Server) getIndex(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ix, err := l.LoadIndex(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ix)
}

func (s *Server) getTier(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tier, err := profiles.ParseTier(chi.URLParam(r, "tier"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	vendors, err := l.VendorsByTier(tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profiles.TierBucket{Vendors: vendors})
}

func (s *Server) prefetchTier(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tier, err := profiles.ParseTier(chi.URLParam(r, "tier"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := l.PrefetchTier(r.Context(), tier)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) getVendor(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	vp, err := l.LoadVendor(r.Context(), chi.URLParam(r, "vendorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, vp)
}

func (s *Server) getCacheStats(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, l.CacheStats())
}

func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) searchPrinters(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matches, err := l.SearchPrinters(r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, matches)
}

func (s *Server) findPrinterVendor(w http.ResponseWriter, r *http.Request) {
	l, err := s.loader()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.writeError(w, r, slicerr.New(slicerr.KindInvalid, "server.findPrinterVendor", "name", "name is required"))
		return
	}

	vendor, ok, err := l.FindVendorByPrinter(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if !ok {
		suggestions, err := l.SuggestPrinters(name, suggestionCount)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.writeErrorWith(w, r,
			slicerr.New(slicerr.KindNotFound, "server.findPrinterVendor", name, "no vendor has a printer with this name"),
			suggestions)

		return
	}

	s.writeJSON(w, http.StatusOK, profiles.PrinterMatch{Printer: name, Vendor: vendor})
}
