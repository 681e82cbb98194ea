package aggregates

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
)

func TestMapErrorTaggedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainagg.CodeValidation},
		{"invariant", InvariantError("broken"), domainagg.CodeInvariantViolation},
		{"conflict", ConflictError("raced"), domainagg.CodeConflict},
		{"retryable", RetryableError("later"), domainagg.CodeRetryable},
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"context canceled", context.Canceled, domainagg.CodeRetryable},
		{"deadline exceeded", context.DeadlineExceeded, domainagg.CodeRetryable},
		{"unknown", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("test.op", tc.err)
			if !domainagg.IsCode(got, tc.want) {
				t.Fatalf("MapError(%v): got %v, want code %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestMapErrorPostgresCodes(t *testing.T) {
	cases := []struct {
		pgCode string
		want   domainagg.ErrorCode
	}{
		{"23505", domainagg.CodeConflict},
		{"23503", domainagg.CodePreconditionFailed},
		{"40001", domainagg.CodeRetryable},
		{"40P01", domainagg.CodeRetryable},
		{"55P03", domainagg.CodeRetryable},
	}
	for _, tc := range cases {
		t.Run(tc.pgCode, func(t *testing.T) {
			err := &pgconn.PgError{Code: tc.pgCode, Message: "pg failure"}
			got := MapError("test.op", err)
			if !domainagg.IsCode(got, tc.want) {
				t.Fatalf("MapError(pg %s): got %v, want code %s", tc.pgCode, got, tc.want)
			}
		})
	}
}

func TestMapErrorPassesThroughDomainErrors(t *testing.T) {
	orig := domainagg.NewError(domainagg.CodeNotFound, "x", "missing", nil)
	if got := MapError("test.op", orig); got != orig {
		t.Fatalf("domain error rewrapped: %v", got)
	}
}

func TestMapErrorNil(t *testing.T) {
	if got := MapError("test.op", nil); got != nil {
		t.Fatalf("MapError(nil) = %v", got)
	}
}
