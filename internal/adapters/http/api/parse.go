package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
)

// ParseDependencies defines the synchronous round-trip operations.
type ParseDependencies interface {
	Parse(ctx context.Context, msg model.Message) (roundtrip.Result, error)
	Unparse(ctx context.Context, msg model.Message, record json.RawMessage) (string, error)
}

// ParseHandler handles POST /parse and POST /unparse.
type ParseHandler struct {
	deps ParseDependencies
}

// NewParseHandler creates a new parse handler.
func NewParseHandler(deps ParseDependencies) *ParseHandler {
	return &ParseHandler{deps: deps}
}

type parseResponse struct {
	roundtrip.Result
	Matched bool `json:"matched"`
}

// HandleParse parses one message and prints it back. Parse failures are
// reported in the body with status 200: they are results, not errors.
func (h *ParseHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	const op = "api.parse"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var msg model.Message
	if err := decode(w, r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Parse(r.Context(), msg)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Result: res, Matched: res.Outcome == roundtrip.OutcomeMatched})
}

type unparseRequest struct {
	Message model.Message   `json:"message"`
	Record  json.RawMessage `json:"record"`
}

type unparseResponse struct {
	Text string `json:"text"`
}

// HandleUnparse prints a record back to text using the context of the
// accompanying message.
func (h *ParseHandler) HandleUnparse(w http.ResponseWriter, r *http.Request) {
	const op = "api.unparse"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req unparseRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Record) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing record")))
		return
	}
	text, err := h.deps.Unparse(r.Context(), req.Message, req.Record)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, unparseResponse{Text: text})
}
