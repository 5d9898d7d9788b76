package types

import "fmt"

// SearchScope decides which stored diagnoses a similarity search compares against
type SearchScope string

const (
	// SearchScopeOwner restricts candidates to the requesting owner's diagnoses
	SearchScopeOwner SearchScope = "owner"
	// SearchScopeAll compares against every stored diagnosis
	SearchScopeAll SearchScope = "all"
)

// IsValid checks if the search scope is valid
func (s SearchScope) IsValid() bool {
	switch s {
	case SearchScopeOwner, SearchScopeAll:
		return true
	default:
		return false
	}
}

// String returns the string representation of the search scope
func (s SearchScope) String() string {
	return string(s)
}

// ParseSearchScope parses a string into a SearchScope
func ParseSearchScope(s string) (SearchScope, error) {
	scope := SearchScope(s)
	if !scope.IsValid() {
		return "", fmt.Errorf("invalid search scope: %s", s)
	}
	return scope, nil
}
