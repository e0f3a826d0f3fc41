package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestCheckBasic(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		db       Pinger
		status   string
		dbStatus string
	}{
		{"healthy database", fakePinger{}, "healthy", "healthy"},
		{"database down", fakePinger{err: errors.New("refused")}, "unhealthy", "unhealthy"},
		{"memory store", nil, "healthy", "not_configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHealthChecker(tt.db).CheckBasic(ctx)
			if got.Status != tt.status || got.Database.Status != tt.dbStatus {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestCheckDetailedReportsRuntime(t *testing.T) {
	got := NewHealthChecker(nil).CheckDetailed(context.Background())
	if got.Host.Goroutines <= 0 {
		t.Errorf("goroutines = %d", got.Host.Goroutines)
	}
	if got.Status != "healthy" {
		t.Errorf("status = %q", got.Status)
	}
}
