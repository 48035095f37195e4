package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"cogentcore.org/core/base/iox/jsonx"

	"slicerweb/internal/slicerr"
)

// multipartMemory is how much of a slice upload is buffered in memory
// before spilling to temporary files.
const multipartMemory = 32 << 20

// JobIDHeader carries the slice job id on slice responses.
const JobIDHeader = "X-Slice-Job-Id"

func (s *Server) postSlice(w http.ResponseWriter, r *http.Request) {
	const op = "server.postSlice"

	if s.slicer == nil {
		s.writeError(w, r, slicerr.New(slicerr.KindNotReady, op, "", "slicer is not configured"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.writeError(w, r, slicerr.Wrap(slicerr.KindInvalid, op, "form", err))
		return
	}

	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile("mesh")
	if err != nil {
		s.writeError(w, r, slicerr.Wrap(slicerr.KindInvalid, op, "mesh", err))
		return
	}
	defer file.Close()

	mesh, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, slicerr.Wrap(slicerr.KindInvalid, op, "mesh", err))
		return
	}

	var settings map[string]any
	if raw := r.FormValue("settings"); strings.TrimSpace(raw) != "" {
		if err := jsonx.Read(&settings, strings.NewReader(raw)); err != nil {
			s.writeError(w, r, slicerr.Wrap(slicerr.KindInvalid, op, "settings", err))
			return
		}
	}

	res, err := s.slicer.Slice(r.Context(), mesh, settings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.JobID+`.gcode"`)
	w.Header().Set(JobIDHeader, res.JobID)
	w.Header().Set("Content-Length", strconv.Itoa(res.Bytes))
	w.WriteHeader(http.StatusOK)

	_, _ = io.WriteString(w, res.GCode)
}

func (s *Server) lastSlice(w http.ResponseWriter, r *http.Request) {
	if s.slicer == nil {
		s.writeError(w, r, slicerr.New(slicerr.KindNotReady, "server.lastSlice", "", "slicer is not configured"))
		return
	}

	res := s.slicer.LastResult()
	if res == nil {
		s.writeError(w, r, slicerr.New(slicerr.KindNotFound, "server.lastSlice", "", "no slice has completed"))
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}
