package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cropai/cropai/pkg/domain/model"
	"github.com/cropai/cropai/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// client implements Service with an LLM
type client struct {
	llmClient gollem.LLMClient
	fallback  Service
}

// Option is a functional option for client configuration
type Option func(*client)

// WithFallback replaces the service used when the LLM call fails
func WithFallback(svc Service) Option {
	return func(c *client) {
		c.fallback = svc
	}
}

// New creates an LLM backed analysis service. LLM failures are reported and
// answered by the fallback service, which defaults to the canned mock.
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		fallback:  NewMock(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Analyze asks the LLM for a structured diagnosis
func (c *client) Analyze(ctx context.Context, conditions model.CropConditions, imageRef string) (*model.Analysis, error) {
	result, err := c.analyze(ctx, conditions, imageRef)
	if err != nil {
		errutil.Handle(ctx, err, "crop analysis by LLM failed, using fallback")
		return c.fallback.Analyze(ctx, conditions, imageRef)
	}
	return result, nil
}

func (c *client) analyze(ctx context.Context, conditions model.CropConditions, imageRef string) (*model.Analysis, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(buildUserPrompt(conditions, imageRef))})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if len(resp.Texts) == 0 {
		return nil, goerr.New("LLM returned no text")
	}

	return parseResponse(strings.Join(resp.Texts, "")), nil
}

var codeFence = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// parseResponse decodes the LLM JSON. Text that is not valid JSON is kept as a
// single raw issue instead of failing the request.
func parseResponse(text string) *model.Analysis {
	jsonText := text
	if m := codeFence.FindStringSubmatch(text); m != nil {
		jsonText = m[1]
	}

	var resp llmResponse
	if err := json.Unmarshal([]byte(jsonText), &resp); err != nil {
		return &model.Analysis{
			Issues: []model.AnalysisIssue{
				{
					Issue:       "Analysis Result",
					Confidence:  0.9,
					Description: text,
				},
			},
			Summary:    "Raw analysis result (formatting issue detected)",
			Confidence: 0.9,
		}
	}

	return resp.toModel()
}

const systemPrompt = "You are an expert agricultural scientist. Analyze the reported crop conditions and provide a detailed diagnosis."

func buildUserPrompt(conditions model.CropConditions, imageRef string) string {
	var sb strings.Builder

	sb.WriteString("Provide a diagnosis based on the following information:\n")
	fmt.Fprintf(&sb, "- Crop Type: %s\n", conditions.CropType)
	fmt.Fprintf(&sb, "- Growth Stage: %s\n", conditions.GrowthStage)
	fmt.Fprintf(&sb, "- Soil Type: %s\n", conditions.SoilType)
	fmt.Fprintf(&sb, "- Location: %s\n", conditions.Location)
	notes := conditions.Notes
	if notes == "" {
		notes = "None"
	}
	fmt.Fprintf(&sb, "- Additional Notes: %s\n", notes)
	if imageRef != "" {
		fmt.Fprintf(&sb, "- Image: %s\n", imageRef)
	}

	sb.WriteString("\nInclude:\n")
	sb.WriteString("1. Likely issues (diseases, pests, nutrient deficiencies, etc.) with confidence levels\n")
	sb.WriteString("2. Possible causes\n")
	sb.WriteString("3. Recommended actions to address each issue\n")
	sb.WriteString("4. Preventive measures for the future\n")

	return sb.String()
}

func buildResponseSchema() *gollem.Parameter {
	stringList := func(desc string, required bool) *gollem.Parameter {
		return &gollem.Parameter{
			Type:        gollem.TypeArray,
			Description: desc,
			Items:       &gollem.Parameter{Type: gollem.TypeString},
			Required:    required,
		}
	}

	return &gollem.Parameter{
		Title:       "CropDiagnosisResponse",
		Description: "Suspected crop issues with causes and recommended actions",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"diagnosis": {
				Type:        gollem.TypeArray,
				Description: "Suspected issues, most likely first",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeObject,
					Properties: map[string]*gollem.Parameter{
						"issue": {
							Type:        gollem.TypeString,
							Description: "Name of the disease, pest or deficiency",
							Required:    true,
						},
						"confidence": {
							Type:        gollem.TypeNumber,
							Description: "Confidence between 0.0 and 1.0",
							Required:    true,
						},
						"description": {
							Type:        gollem.TypeString,
							Description: "Visible symptoms",
						},
						"causes":             stringList("Possible causes", false),
						"recommendations":    stringList("Recommended actions", true),
						"preventiveMeasures": stringList("Preventive measures for future seasons", false),
					},
				},
			},
			"summary": {
				Type:        gollem.TypeString,
				Description: "Short overall summary",
				Required:    true,
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Description: "Overall confidence between 0.0 and 1.0",
				Required:    true,
			},
		},
	}
}
