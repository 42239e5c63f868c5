package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/apiresp"
	"github.com/dalemusser/ekaahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  Pinger
	Started time.Time
	Log     *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Started: time.Now(),
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve reports process uptime and whether MongoDB answers a ping. A failed
// ping is a 503 so load balancers pull the instance.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	status, resp := http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "connected",
		Uptime:   time.Since(h.Started).Truncate(time.Second).String(),
	}
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health: mongo ping failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		resp.Status, resp.Database = "error", "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
	}
	apiresp.JSON(w, status, resp)
}

// ServeRoot answers GET / so load balancers and humans see the API is up.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	apiresp.JSON(w, http.StatusOK, map[string]string{"message": "Server is running"})
}
