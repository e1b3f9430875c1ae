package errors

import (
	"strings"
	"testing"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("KNN", "Predict")

	var notFitted *NotFittedError
	if !As(err, &notFitted) {
		t.Fatalf("expected NotFittedError in chain, got %v", err)
	}
	if notFitted.ModelName != "KNN" || notFitted.Method != "Predict" {
		t.Errorf("unexpected fields: %+v", notFitted)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError("versicolor", 1, 2)

	var insufficient *InsufficientDataError
	if !As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError in chain, got %v", err)
	}
	if insufficient.Class != "versicolor" || insufficient.Count != 1 || insufficient.Required != 2 {
		t.Errorf("unexpected fields: %+v", insufficient)
	}
}

func TestDegenerateInputError(t *testing.T) {
	err := NewDegenerateInputError("kda.Fit", 2)

	var degenerate *DegenerateInputError
	if !As(err, &degenerate) {
		t.Fatalf("expected DegenerateInputError in chain, got %v", err)
	}
	if degenerate.Class != 2 {
		t.Errorf("expected class 2, got %d", degenerate.Class)
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("kCandidateGrid", "must not be empty", []int{})

	var config *ConfigurationError
	if !As(err, &config) {
		t.Fatalf("expected ConfigurationError in chain, got %v", err)
	}
	if config.Param != "kCandidateGrid" {
		t.Errorf("unexpected param: %s", config.Param)
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := NewDimensionError("Confusion", 10, 8, 0)
	wrapped := Wrap(inner, "scoring failed")

	var dim *DimensionError
	if !As(wrapped, &dim) {
		t.Fatalf("wrapping should preserve the error type, got %v", wrapped)
	}
	if dim.Expected != 10 || dim.Got != 8 {
		t.Errorf("unexpected fields: %+v", dim)
	}
}
