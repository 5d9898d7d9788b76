package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Diagnosis() DiagnosisRepository

	Close() error
}
