package usecase

import (
	"github.com/cropai/cropai/pkg/domain/interfaces"
	"github.com/cropai/cropai/pkg/domain/types"
	"github.com/cropai/cropai/pkg/service/analysis"
	"github.com/cropai/cropai/pkg/service/slack"
)

const (
	// DefaultSimilarLimit bounds FindSimilar when no limit is given
	DefaultSimilarLimit = 5
	// DiagnoseSimilarLimit bounds the similar cases returned by Diagnose
	DiagnoseSimilarLimit = 3
	// DefaultListLimit bounds ListByOwner and ListByField when no limit is given
	DefaultListLimit = 20
)

type UseCases struct {
	repo interfaces.Repository

	fitPolicy      types.FitPolicy
	searchScope    types.SearchScope
	similarLimit   int
	analysis       analysis.Service
	slackService   slack.Service
	slackChannelID string

	Diagnosis *DiagnosisUseCase
	Diagnose  *DiagnoseUseCase
}

type Option func(*UseCases)

// WithFitPolicy selects how the vocabulary evolves on save
func WithFitPolicy(policy types.FitPolicy) Option {
	return func(uc *UseCases) {
		uc.fitPolicy = policy
	}
}

// WithSearchScope selects whether similarity search is limited to the owner
func WithSearchScope(scope types.SearchScope) Option {
	return func(uc *UseCases) {
		uc.searchScope = scope
	}
}

// WithSimilarLimit overrides DefaultSimilarLimit
func WithSimilarLimit(limit int) Option {
	return func(uc *UseCases) {
		uc.similarLimit = limit
	}
}

// WithAnalysis sets the crop analysis service used by Diagnose
func WithAnalysis(svc analysis.Service) Option {
	return func(uc *UseCases) {
		uc.analysis = svc
	}
}

// WithSlack enables notifications for negative feedback
func WithSlack(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannelID = channelID
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:         repo,
		fitPolicy:    types.DefaultFitPolicy,
		searchScope:  types.SearchScopeOwner,
		similarLimit: DefaultSimilarLimit,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.analysis == nil {
		uc.analysis = analysis.NewMock()
	}

	uc.Diagnosis = NewDiagnosisUseCase(repo, DiagnosisConfig{
		FitPolicy:      uc.fitPolicy,
		SearchScope:    uc.searchScope,
		SimilarLimit:   uc.similarLimit,
		SlackService:   uc.slackService,
		SlackChannelID: uc.slackChannelID,
	})
	uc.Diagnose = NewDiagnoseUseCase(uc.Diagnosis, uc.analysis)

	return uc
}
