package memory

import (
	"github.com/cropai/cropai/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps everything in process. It backs tests and local development.
type Memory struct {
	diagnosis *diagnosisRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		diagnosis: newDiagnosisRepository(),
	}
}

func (m *Memory) Diagnosis() interfaces.DiagnosisRepository {
	return m.diagnosis
}

func (m *Memory) Close() error {
	return nil
}
