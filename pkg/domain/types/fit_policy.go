package types

import "fmt"

// FitPolicy controls how the vocabulary is updated when a new diagnosis is saved
type FitPolicy string

const (
	// FitPolicyReplace refits on the new document only and discards the previous vocabulary
	FitPolicyReplace FitPolicy = "replace"
	// FitPolicyMerge folds the new document into the running vocabulary
	FitPolicyMerge FitPolicy = "merge"
)

// DefaultFitPolicy is used when no policy is configured
const DefaultFitPolicy = FitPolicyMerge

// AllFitPolicies returns all valid fit policies
func AllFitPolicies() []FitPolicy {
	return []FitPolicy{
		FitPolicyReplace,
		FitPolicyMerge,
	}
}

// IsValid checks if the fit policy is valid
func (p FitPolicy) IsValid() bool {
	switch p {
	case FitPolicyReplace, FitPolicyMerge:
		return true
	default:
		return false
	}
}

// String returns the string representation of the fit policy
func (p FitPolicy) String() string {
	return string(p)
}

// ParseFitPolicy parses a string into a FitPolicy
func ParseFitPolicy(s string) (FitPolicy, error) {
	p := FitPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid fit policy: %s", s)
	}
	return p, nil
}
