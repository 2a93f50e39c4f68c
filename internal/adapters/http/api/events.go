package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/okian/holical/internal/domain/model"
)

const (
	maxEventBody  = 64 << 10
	maxImportBody = 10 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventStore
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventStore) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the OpenAPI schema for POST /events and PUT /events/{id}.
type eventRequest struct {
	ID              string `json:"id"`
	ParticipantName string `json:"participant_name"`
	Date            string `json:"date"`
	Category        string `json:"category"`
}

func (e eventRequest) event() model.CalendarEvent {
	return model.CalendarEvent{
		ID:              e.ID,
		ParticipantName: e.ParticipantName,
		Date:            e.Date,
		Category:        model.Category(e.Category),
	}
}

type listResponse struct {
	Events []model.CalendarEvent `json:"events"`
	Count  int                   `json:"count"`
}

// HandleCollection handles GET and POST /events requests.
func (h *EventsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.events"
	switch r.Method {
	case http.MethodGet:
		events, err := h.deps.ListEvents(r.Context())
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, listResponse{Events: events, Count: len(events)})
	case http.MethodPost:
		req, err := decodeEvent(w, r)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		created, err := h.deps.CreateEvent(r.Context(), req.event())
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		w.Header().Set("Location", "/events/"+created.ID)
		writeJSON(w, http.StatusCreated, created)
	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodPost)
	}
}

// HandleItem handles GET, PUT and DELETE /events/{id} requests.
func (h *EventsHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.event"
	id := strings.TrimPrefix(r.URL.Path, "/events/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		ev, err := h.deps.GetEvent(r.Context(), id)
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, ev)
	case http.MethodPut:
		req, err := decodeEvent(w, r)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		updated, err := h.deps.UpdateEvent(r.Context(), id, req.event())
		if err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.deps.DeleteEvent(r.Context(), id); err != nil {
			writeFailure(w, Wrap(op, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// HandleImport handles POST /events/import requests. The workbook is read
// from the multipart field "file" or, failing that, the raw body.
func (h *EventsHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	const op = "api.import"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		defer func() { _ = file.Close() }()
		src = file
	}

	res, err := h.deps.ImportXLSX(r.Context(), src)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleExport handles GET /events/export.xlsx requests.
func (h *EventsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, op, http.MethodGet)
		return
	}
	var buf bytes.Buffer
	if err := h.deps.ExportXLSX(r.Context(), &buf); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="holical-events.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (eventRequest, error) {
	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if dec.More() {
		return req, errors.New("unexpected data after JSON object")
	}
	return req, nil
}
