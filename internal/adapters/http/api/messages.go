package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/mmolbparse/internal/adapters/mq/queue"
	service "github.com/okian/mmolbparse/internal/app"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/pkg/logger"
)

// MessageDependencies defines the asynchronous submission operation.
type MessageDependencies interface {
	Enqueue(ctx context.Context, msg model.Message) (service.Ack, error)
}

// MessagesHandler handles POST /messages.
type MessagesHandler struct {
	deps         MessageDependencies
	maxBatchSize int
	logger       logger.Logger
}

// NewMessagesHandler creates a new messages handler.
func NewMessagesHandler(deps MessageDependencies, maxBatchSize int, l logger.Logger) *MessagesHandler {
	return &MessagesHandler{deps: deps, maxBatchSize: maxBatchSize, logger: l}
}

type messagesRequest struct {
	Messages []model.Message `json:"messages"`
}

type messagesResponse struct {
	Accepted   int           `json:"accepted"`
	Duplicates int           `json:"duplicates"`
	Acks       []service.Ack `json:"acks"`
}

type backpressureResponse struct {
	errorResponse
	messagesResponse
}

// HandlePostMessages validates a batch and queues it. Every message is
// validated before any is queued. On backpressure the messages queued so far
// stay queued; resubmitting the batch reports them as duplicates.
func (h *MessagesHandler) HandlePostMessages(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_messages"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req messagesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	switch {
	case len(req.Messages) == 0:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("no messages")))
		return
	case len(req.Messages) > h.maxBatchSize:
		err := fmt.Errorf("batch of %d exceeds %d", len(req.Messages), h.maxBatchSize)
		writeError(w, http.StatusBadRequest, "batch_too_large", WrapKind(op, ErrBadRequest, err))
		return
	}
	for i, msg := range req.Messages {
		if err := msg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("message %d: %w", i, err)))
			return
		}
	}

	resp := messagesResponse{Acks: make([]service.Ack, 0, len(req.Messages))}
	for _, msg := range req.Messages {
		ack, err := h.deps.Enqueue(r.Context(), msg)
		switch {
		case err == nil:
		case errors.Is(err, queue.ErrFull):
			writeJSON(w, http.StatusTooManyRequests, backpressureResponse{
				errorResponse:    errorResponse{Code: "backpressure", Message: WrapKind(op, ErrBackpressure, err).Error()},
				messagesResponse: resp,
			})
			return
		case errors.Is(err, queue.ErrClosed), errors.Is(err, service.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		default:
			h.logger.Error(r.Context(), "enqueue failed", logger.String("id", msg.ID), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		if ack.Duplicate {
			resp.Duplicates++
		} else {
			resp.Accepted++
		}
		resp.Acks = append(resp.Acks, ack)
	}
	writeJSON(w, http.StatusAccepted, resp)
}
