package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/recommender-evaluator/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("folds must be positive")

	if err.Error() != "folds must be positive" {
		t.Errorf("expected 'folds must be positive', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid plan", inner)

	if err.Error() != "invalid plan: parse failed" {
		t.Errorf("expected 'invalid plan: parse failed', got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("k values must be positive")

	wrapped := fmt.Errorf("failed to load plan: %w", original)
	doubleWrapped := fmt.Errorf("evaluate: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "k values must be positive" {
		t.Errorf("expected 'k values must be positive', got %q", ve.Message)
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("connection refused")
	wrapped := fmt.Errorf("evaluate: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", apperr.NewNotFound("evaluation", "42"))

	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As should find NotFoundError")
	}
	if nf.Error() != "evaluation 42 not found" {
		t.Errorf("unexpected message %q", nf.Error())
	}
}

func TestErrPrecondition_Wrapped(t *testing.T) {
	err := fmt.Errorf("rmse: %w", apperr.ErrPrecondition)
	if !errors.Is(err, apperr.ErrPrecondition) {
		t.Fatal("errors.Is should match ErrPrecondition")
	}
}
