package usecase_test

import (
	"errors"
	"testing"

	"github.com/cropai/cropai/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrDiagnosisNotFound", usecase.ErrDiagnosisNotFound},
		{"ErrStorageFailure", usecase.ErrStorageFailure},
		{"ErrInvalidInput", usecase.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrDiagnosisNotFound, usecase.ErrStorageFailure)).False()
	gt.Bool(t, errors.Is(usecase.ErrStorageFailure, usecase.ErrInvalidInput)).False()
	gt.Bool(t, errors.Is(usecase.ErrInvalidInput, usecase.ErrDiagnosisNotFound)).False()
}
