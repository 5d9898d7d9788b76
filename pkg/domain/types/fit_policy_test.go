package types_test

import (
	"testing"

	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestParseFitPolicy(t *testing.T) {
	t.Run("replace", func(t *testing.T) {
		p, err := types.ParseFitPolicy("replace")
		gt.NoError(t, err).Required()
		gt.Value(t, p).Equal(types.FitPolicyReplace)
	})

	t.Run("merge", func(t *testing.T) {
		p, err := types.ParseFitPolicy("merge")
		gt.NoError(t, err).Required()
		gt.Value(t, p).Equal(types.FitPolicyMerge)
	})

	t.Run("unknown policy fails", func(t *testing.T) {
		_, err := types.ParseFitPolicy("union")
		gt.Value(t, err).NotNil()
	})

	t.Run("default is valid", func(t *testing.T) {
		gt.Bool(t, types.DefaultFitPolicy.IsValid()).True()
	})

	t.Run("all policies are valid", func(t *testing.T) {
		for _, p := range types.AllFitPolicies() {
			gt.Bool(t, p.IsValid()).True()
		}
	})
}

func TestParseSearchScope(t *testing.T) {
	scope, err := types.ParseSearchScope("owner")
	gt.NoError(t, err).Required()
	gt.Value(t, scope).Equal(types.SearchScopeOwner)

	scope, err = types.ParseSearchScope("all")
	gt.NoError(t, err).Required()
	gt.Value(t, scope).Equal(types.SearchScopeAll)

	_, err = types.ParseSearchScope("team")
	gt.Value(t, err).NotNil()
	gt.Bool(t, types.SearchScope("").IsValid()).False()
}
