package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB          *sql.DB
	LLMReady    bool
	NotifyReady bool
}

// NewService constructs a new health service.
func NewService(db *sql.DB, llmReady, notifyReady bool) *Service {
	return &Service{DB: db, LLMReady: llmReady, NotifyReady: notifyReady}
}

// Status reports readiness of the service's dependencies. The database check
// pings with a short timeout; a nil DB means in-memory mode and counts as ok.
func (s *Service) Status(ctx context.Context) map[string]bool {
	dbOK := true
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		dbOK = s.DB.PingContext(pingCtx) == nil
	}
	return map[string]bool{
		"ok":       dbOK,
		"database": dbOK,
		"ai":       s.LLMReady,
		"notify":   s.NotifyReady,
	}
}
