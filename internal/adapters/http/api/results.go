package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/mmolbparse/internal/adapters/repository"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
)

// ResultsDependencies defines the result read operations.
type ResultsDependencies interface {
	Result(ctx context.Context, id string) (roundtrip.Result, error)
	Results(ctx context.Context, filter repository.Filter) ([]roundtrip.Result, error)
}

// ResultsHandler handles GET /results and GET /results/{id}.
type ResultsHandler struct {
	deps     ResultsDependencies
	maxLimit int
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps ResultsDependencies, maxLimit int) *ResultsHandler {
	return &ResultsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetResult handles GET /results/{id}.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/results/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Result(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleListResults handles GET /results?outcome=&family=&limit=.
func (h *ResultsHandler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_results"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	filter, err := h.filter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	results, err := h.deps.Results(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if results == nil {
		results = []roundtrip.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *ResultsHandler) filter(r *http.Request) (repository.Filter, error) {
	q := r.URL.Query()
	var f repository.Filter
	if s := q.Get("outcome"); s != "" {
		o, err := roundtrip.ParseOutcome(s)
		if err != nil {
			return f, err
		}
		f.Outcome = o
	}
	if s := q.Get("family"); s != "" {
		fam, err := model.ParseFamily(s)
		if err != nil {
			return f, err
		}
		f.Family = fam
	}
	f.Limit = min(repository.DefaultLimit, h.maxLimit)
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return f, fmt.Errorf("limit must be a positive integer, got %q", s)
		}
		if n > h.maxLimit {
			return f, fmt.Errorf("limit %d exceeds %d", n, h.maxLimit)
		}
		f.Limit = n
	}
	return f, nil
}
