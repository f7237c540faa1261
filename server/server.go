package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/nrivlin/stego"
)

// Server exposes the hide/recover pipeline over HTTP. Carriers arrive
// as multipart uploads; the stego output comes back as a file download
// in the carrier's own format.
type Server struct {
	cfg  Config
	proc *stego.Processor
}

// New creates a Server. A nil processor selects the default codec and
// cipher set.
func New(cfg Config, proc *stego.Processor) *Server {
	if proc == nil {
		proc = stego.NewProcessor()
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{cfg: cfg, proc: proc}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /encode", s.handleEncode)
	mux.HandleFunc("POST /decode", s.handleDecode)
	mux.HandleFunc("POST /capacity", s.handleCapacity)
	return mux
}

// ListenAndServe runs the server on the configured address.
func (s *Server) ListenAndServe() error {
	log.Printf("listening on %s", s.cfg.ListenAddr)
	return http.ListenAndServe(s.cfg.ListenAddr, s.Handler())
}

// carrierUpload is one parsed multipart request: the carrier bytes, the
// detected format, and the effective parameters.
type carrierUpload struct {
	name    string
	data    []byte
	format  stego.Format
	params  stego.Params
	message string
}

// readUpload parses the multipart form shared by all routes.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*carrierUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := r.FormFile("carrier")
	if err != nil {
		return nil, fmt.Errorf("carrier file is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read carrier: %w", err)
	}

	format, err := stego.DetectFormat(header.Filename, data)
	if err != nil {
		return nil, err
	}

	params := stego.Params{
		NLSB:           s.cfg.Defaults.NLSB,
		PairStride:     s.cfg.Defaults.PairStride,
		MaxSampleDelta: s.cfg.Defaults.MaxSampleDelta,
	}
	if v := r.FormValue("n_lsb"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("n_lsb %q is not a number", v)
		}
		params.NLSB = n
	}

	return &carrierUpload{
		name:    header.Filename,
		data:    data,
		format:  format,
		params:  params,
		message: r.FormValue("message"),
	}, nil
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if up.message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	out, err := s.proc.Embed(r.Context(), up.data, up.format, []byte(up.message), r.FormValue("password"), up.params)
	if err != nil {
		writeError(w, err)
		return
	}

	ct := mime.TypeByExtension(filepath.Ext(up.name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "stego_"+filepath.Base(up.name)))
	w.Write(out)
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	msg, err := s.proc.Extract(r.Context(), up.data, up.format, r.FormValue("password"), up.params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(msg)
}

func (s *Server) handleCapacity(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	bits, err := s.proc.Capacity(up.data, up.format, up.params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s: %d bits (%d payload bytes)\n", up.format, bits, stego.MaxPayloadBytes(bits))
}

// writeError maps the package error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stego.ErrAuthentication):
		http.Error(w, "wrong password or damaged payload", http.StatusUnauthorized)
	case errors.Is(err, stego.ErrIncompleteFrame), errors.Is(err, stego.ErrFrameLengthMismatch):
		http.Error(w, "no hidden payload found", http.StatusNotFound)
	case errors.Is(err, stego.ErrCapacityExceeded):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
