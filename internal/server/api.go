package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/trade-log-tracker/internal/analytics"
	"github.com/yourusername/trade-log-tracker/internal/ledger"
	"github.com/yourusername/trade-log-tracker/internal/models"
	"github.com/yourusername/trade-log-tracker/internal/scheduler"
)

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// LedgerResponse describes a ledger accepted by the API
type LedgerResponse struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	LoadedAt    time.Time         `json:"loaded_at"`
	Fingerprint string            `json:"fingerprint"`
	Stats       ledger.QuickStats `json:"stats"`
}

var errUploadTooLarge = errors.New("trade log exceeds upload limit")

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		s.audit.LogUploadThrottled(r.RemoteAddr)
		writeError(w, http.StatusTooManyRequests, errors.New("too many uploads, retry later"))
		return
	}

	body, name, err := s.readUpload(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err)
		return
	}

	l, err := s.cfg.Dashboard.Read(r.Context(), bytes.NewReader(body), name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.accept(r, w, l, int64(len(body)))
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	l, err := s.cfg.Dashboard.Load(r.Context(), ledger.DemoSource{})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.accept(r, w, l, 0)
}

func (s *Server) accept(r *http.Request, w http.ResponseWriter, l *ledger.Ledger, size int64) {
	s.cfg.Store.Put(r.Context(), l)
	s.audit.LogLedgerUpload(l.ID().String(), l.Source(), r.RemoteAddr, l.Fingerprint(), size, l.LoadedAt())
	writeJSON(w, http.StatusCreated, LedgerResponse{
		ID:          l.ID().String(),
		Source:      l.Source(),
		LoadedAt:    l.LoadedAt(),
		Fingerprint: l.Fingerprint(),
		Stats:       ledger.Stats(l),
	})
}

// readUpload returns the CSV payload of a raw or multipart request
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			return nil, "", uploadError(err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("multipart field 'file' is required: %w", err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", uploadError(err)
		}
		return data, "upload:" + header.Filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", uploadError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, "", errors.New("request body is empty")
	}
	return data, "upload", nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w (%d bytes)", errUploadTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("failed to read upload: %w", err)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookup(w, r)
	if !ok {
		return
	}
	view, err := s.cfg.Dashboard.Summary(r.Context(), l)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	l, filter, fund, ok := s.viewParams(w, r)
	if !ok {
		return
	}
	view, err := s.cfg.Dashboard.Portfolio(r.Context(), l, filter, fund)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	l, filter, fund, ok := s.viewParams(w, r)
	if !ok {
		return
	}
	view, err := s.cfg.Dashboard.Strategies(r.Context(), l, filter, fund)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSeriesCSV exports the filtered series; fund=0 selects the no-fund variant
func (s *Server) handleSeriesCSV(w http.ResponseWriter, r *http.Request) {
	l, filter, fund, ok := s.viewParams(w, r)
	if !ok {
		return
	}
	selected, err := filter.Apply(l)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	series, err := s.cfg.Dashboard.Series(r.Context(), selected, fund)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := analytics.WriteCSV(&buf, series); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", l.ID().String()+".csv"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	l, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.cfg.Store.Delete(r.Context(), l.ID())
	if s.cfg.SeriesCache != nil {
		s.cfg.SeriesCache.Invalidate(r.Context(), l.Fingerprint())
	}
	s.audit.LogLedgerDeleted(l.ID().String(), r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWatches(w http.ResponseWriter, r *http.Request) {
	watches := []scheduler.WatchStatus{}
	if s.cfg.Watches != nil {
		watches = s.cfg.Watches.Watches()
	}
	writeJSON(w, http.StatusOK, watches)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid ledger id: %w", err))
		return nil, false
	}
	l, err := s.cfg.Store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return l, true
}

func (s *Server) viewParams(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, ledger.Filter, float64, bool) {
	l, ok := s.lookup(w, r)
	if !ok {
		return nil, ledger.Filter{}, 0, false
	}
	filter, fund, err := parseViewQuery(r, s.cfg.Dashboard.DefaultFund())
	if err != nil {
		s.writeDomainError(w, err)
		return nil, ledger.Filter{}, 0, false
	}
	return l, filter, fund, true
}

// parseViewQuery reads fund, strategy, from and to query parameters
func parseViewQuery(r *http.Request, defaultFund float64) (ledger.Filter, float64, error) {
	q := r.URL.Query()

	fund := defaultFund
	if raw := q.Get("fund"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ledger.Filter{}, 0, fmt.Errorf("%w: fund %q is not a number", models.ErrInvalidParameter, raw)
		}
		fund = v
	}

	filter, err := ledger.ParseFilter(q["strategy"], q.Get("from"), q.Get("to"))
	if err != nil {
		return ledger.Filter{}, 0, err
	}
	return filter, fund, nil
}

// writeDomainError maps pipeline errors onto HTTP statuses
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidParameter):
		writeErrorKind(w, http.StatusBadRequest, err, "invalid_parameter")
	case errors.Is(err, models.ErrSchema):
		writeErrorKind(w, http.StatusUnprocessableEntity, err, "schema")
	case errors.Is(err, models.ErrDateParse):
		writeErrorKind(w, http.StatusUnprocessableEntity, err, "date_parse")
	case errors.Is(err, models.ErrValueParse):
		writeErrorKind(w, http.StatusUnprocessableEntity, err, "value_parse")
	case errors.Is(err, ledger.ErrMalformedCSV):
		writeErrorKind(w, http.StatusUnprocessableEntity, err, "malformed")
	case errors.Is(err, models.ErrLedgerNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusRequestTimeout, err)
	default:
		s.logger.WithError(err).Error("API request failed")
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeErrorKind(w http.ResponseWriter, status int, err error, kind string) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}
