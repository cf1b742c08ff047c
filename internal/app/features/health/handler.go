package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/courseforge/courseforge/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// QueuePinger reports reachability of the indexing queue. Optional: a
// nil pinger leaves the queue out of the report.
type QueuePinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Queue  QueuePinger
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client, the
// optional queue pinger, and logger.
func NewHandler(client *mongo.Client, queue QueuePinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Queue:  queue,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Queue    string `json:"queue,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "queue":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
//
// A down queue does not fail the check. Indexing is fire-and-forget, so
// the queue field is informational only.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Queue != nil {
		resp.Queue = "connected"
		if err := h.Queue.Ping(ctx); err != nil {
			h.Log.Warn("health-check: queue ping failed", zap.Error(err))
			resp.Queue = "disconnected"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
