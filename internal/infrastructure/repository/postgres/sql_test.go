package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsRetryableConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock detected", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "wrapped pq error", err: fmt.Errorf("commit: %w", &pq.Error{Code: "40001"}), want: true},
		{name: "other pq error", err: &pq.Error{Code: "23503"}, want: false},
		{name: "non pq error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableConflict(tt.err); got != tt.want {
				t.Fatalf("isRetryableConflict(%v)=%v want=%v", tt.err, got, tt.want)
			}
		})
	}
}
