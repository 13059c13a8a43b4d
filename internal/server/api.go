package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"github.com/tartampluch/go-celebrations/internal/report"
	"github.com/tartampluch/go-celebrations/internal/store"
)

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Celebrations is the body of GET /api/celebrations.
type Celebrations struct {
	Date          string            `json:"date"`
	Birthdays     []engine.Employee `json:"birthdays"`
	Anniversaries []engine.Employee `json:"anniversaries"`
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, nonNil(engine.Search(employees, q.Get(config.QueryParamSearch), q.Get(config.QueryParamDept))))
}

func (s *Server) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	var in engine.EmployeeInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, config.ErrBadRequest, err)
		return
	}

	emp, err := s.Store.Add(r.Context(), in)
	if err != nil {
		s.fail(w, r, config.ErrStoreAdd, err)
		return
	}

	slog.Info(config.MsgEmployeeAdded,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyEmployee, emp.ID,
	)
	s.requestRefresh()
	writeJSON(w, http.StatusCreated, emp)
}

func (s *Server) handleRemoveEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, config.URLParamID)
	if err := s.Store.Remove(r.Context(), id); err != nil {
		s.fail(w, r, config.ErrStoreRemove, err)
		return
	}

	slog.Info(config.MsgEmployeeRemoved,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyEmployee, id,
	)
	s.requestRefresh()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCelebrations(w http.ResponseWriter, r *http.Request) {
	date := s.today()
	if raw := r.URL.Query().Get(config.QueryParamDate); raw != "" {
		d, err := time.ParseInLocation(config.DateFormatISO, raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, config.ErrInvalidReference, err)
			return
		}
		date = d
	}

	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	birthdays, err := engine.OnDate(employees, engine.FieldBirthday, date)
	engine.LogSkipped(err)
	anniversaries, err := engine.OnDate(employees, engine.FieldJoinDate, date)
	engine.LogSkipped(err)

	writeJSON(w, http.StatusOK, Celebrations{
		Date:          date.Format(config.DateFormatISO),
		Birthdays:     nonNil(birthdays),
		Anniversaries: nonNil(anniversaries),
	})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := s.HorizonDays
	if raw := r.URL.Query().Get(config.QueryParamDays); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, config.ErrBadRequest, fmt.Errorf("%s=%q", config.QueryParamDays, raw))
			return
		}
		days = n
	}

	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	events, err := s.Upcoming.Within(employees, s.today(), days)
	engine.LogSkipped(err)
	if events == nil {
		events = []engine.UpcomingEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	year, yerr := strconv.Atoi(chi.URLParam(r, config.URLParamYear))
	month, merr := strconv.Atoi(chi.URLParam(r, config.URLParamMonth))
	if yerr != nil || merr != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, config.ErrBadRequest, errors.Join(yerr, merr))
		return
	}

	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	view, err := engine.BuildMonth(employees, year, time.Month(month))
	engine.LogSkipped(err)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	stats, err := engine.ComputeStats(employees, s.today())
	engine.LogSkipped(err)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, nonNil(engine.Departments(employees)))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, config.URLParamKind)
	q := r.URL.Query()
	req := report.Request{
		Kind:        kind,
		Today:       s.today(),
		Query:       q.Get(config.QueryParamSearch),
		Department:  q.Get(config.QueryParamDept),
		HorizonDays: s.HorizonDays,
	}
	if raw := q.Get(config.QueryParamDays); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, config.ErrBadRequest, fmt.Errorf("%s=%q", config.QueryParamDays, raw))
			return
		}
		req.HorizonDays = n
	}

	employees, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	table, err := s.Reports.Build(employees, req)
	if errors.Is(err, engine.ErrInvalidDate) {
		// A stored record is malformed: the request itself was fine.
		writeError(w, http.StatusUnprocessableEntity, config.ErrReportBuild, err)
		return
	}
	if err != nil {
		s.fail(w, r, config.ErrReportBuild, err)
		return
	}
	body, err := table.Bytes()
	if err != nil {
		s.fail(w, r, config.ErrReportBuild, err)
		return
	}

	name := report.Filename(kind, req.Today)
	w.Header().Set(config.HeaderContentType, config.MimeTextCSV)
	w.Header().Set(config.HeaderContentDisp, fmt.Sprintf(config.FormatAttachment, name))
	if _, err := w.Write(body); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		return
	}
	slog.Info(config.MsgReportWritten,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyKind, kind,
		config.LogKeyFile, name,
		config.LogKeyCount, len(table.Rows),
	)
}

// snapshot loads the store, writing a 500 on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) ([]engine.Employee, bool) {
	employees, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, config.ErrStoreList, err)
		return nil, false
	}
	return employees, true
}

func (s *Server) today() time.Time {
	return engine.DateOnly(s.Clock.Now())
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(config.MsgRequestFailed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRequestID, middleware.GetReqID(r.Context()),
			config.LogKeyError, err,
		)
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrMissingField), errors.Is(err, engine.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound), errors.Is(err, report.ErrUnknownKind):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
