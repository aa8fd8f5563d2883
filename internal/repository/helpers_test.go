package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lib/pq"
)

type fakeResult struct {
	n   int64
	err error
}

func (r fakeResult) RowsAffected() (int64, error) { return r.n, r.err }

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
		{"foreign key violation", &pq.Error{Code: "23503"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

// SHARE ROW EXCLUSIVE is the weakest mode that conflicts with itself
func TestLockUsersForInsert(t *testing.T) {
	if !strings.HasSuffix(lockUsersForInsert, "IN SHARE ROW EXCLUSIVE MODE") {
		t.Errorf("unexpected lock statement %q", lockUsersForInsert)
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("Expected empty string to map to NULL")
	}
	if nullString("x") != "x" {
		t.Error("Expected non-empty string to pass through")
	}
}

func TestAffected(t *testing.T) {
	if ok, err := affected(fakeResult{n: 1}); !ok || err != nil {
		t.Errorf("Expected true, got %v, %v", ok, err)
	}
	if ok, err := affected(fakeResult{n: 0}); ok || err != nil {
		t.Errorf("Expected false, got %v, %v", ok, err)
	}
	if _, err := affected(fakeResult{err: errors.New("driver")}); err == nil {
		t.Error("Expected driver error to propagate")
	}
}
