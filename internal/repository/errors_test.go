package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestAccessErrorPreservesCause(t *testing.T) {
	cause := sql.ErrConnDone
	err := accessErr("table order", 42, fmt.Errorf("failed to update table order: %w", cause))

	if !errors.Is(err, sql.ErrConnDone) {
		t.Error("original cause not reachable through errors.Is")
	}

	var ae *AccessError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As failed to find AccessError")
	}
	if ae.Entity != "table order" || ae.Key != 42 {
		t.Errorf("context lost: entity=%q key=%v", ae.Entity, ae.Key)
	}
	if msg := err.Error(); msg == "" || msg == cause.Error() {
		t.Errorf("message must carry entity and key context, got %q", msg)
	}
}
