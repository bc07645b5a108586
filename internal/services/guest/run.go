package guest

import (
	"context"
	"database/sql"
	"strconv"

	"dining-system/internal/connections/rabbitmq"
	"dining-system/internal/httpx"
	"dining-system/internal/logger"
	"dining-system/internal/repository"
	"dining-system/internal/services/httputil"
)

// Run serves the guest-facing controller surface until ctx cancels.
func Run(ctx context.Context, port int, db *sql.DB, rmq *rabbitmq.Client) error {
	lg := logger.New("guest-service")
	repo := repository.New(db)
	svc := NewGuestService(repo, rmq, lg)
	handler := NewGuestHandler(svc)

	lg.Info("listening", map[string]any{"port": port})
	srv := httpx.New(":"+strconv.Itoa(port), httputil.WithRequestID(handler.Router()))
	return srv.Run(ctx)
}
