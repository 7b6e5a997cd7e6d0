package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/marker"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ scribe.Provider = (*Client)(nil)

// generator is the subset of *genai.Models used by Client.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements [scribe.Provider] for the Google Gemini API.
type Client struct {
	models      generator
	model       string
	nativeTools bool
	log         zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-pro.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithNativeTools controls whether tool declarations are sent with requests.
// When disabled the model can only invoke tools through call markers.
// Default is true.
func WithNativeTools(enabled bool) Option {
	return func(c *Client) { c.nativeTools = enabled }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", scribe.ErrMissingAPIKey)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return newClient(gc.Models, opts...), nil
}

func newClient(models generator, opts ...Option) *Client {
	c := &Client{
		models:      models,
		model:       defaultModel,
		nativeTools: true,
		log:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate sends the transcript to Gemini and classifies the reply.
func (c *Client) Generate(ctx context.Context, req scribe.Request) (scribe.Response, error) {
	if err := req.Validate(); err != nil {
		return scribe.Response{}, fmt.Errorf("gemini: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	contents := ConvertMessages(req.SystemPrompt, req.Messages)
	config := c.buildConfig(req)

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return scribe.Response{}, fmt.Errorf("gemini: %w", err)
	}
	out, err := ConvertResponse(resp)
	if err != nil {
		return scribe.Response{}, err
	}
	c.log.Debug().
		Str("model", model).
		Str("stop_reason", string(out.StopReason)).
		Int("input_tokens", out.Usage.InputTokens).
		Int("output_tokens", out.Usage.OutputTokens).
		Dur("duration", time.Since(start)).
		Msg("model reply")
	return out, nil
}

func (c *Client) buildConfig(req scribe.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if c.nativeTools {
		config.Tools = ConvertTools(req.Tools)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	return config
}

// ConvertMessages converts the system instruction and transcript to genai
// Contents. The instruction is sent as a leading model-role entry, followed
// by the transcript with assistant messages mapped to the model role.
// Exported for testing.
func ConvertMessages(system string, msgs []scribe.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(msgs)+1)
	if system != "" {
		result = append(result, &genai.Content{
			Role:  roleModel,
			Parts: []*genai.Part{{Text: system}},
		})
	}
	for _, m := range msgs {
		role := roleUser
		if m.Role == scribe.RoleAssistant {
			role = roleModel
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return result
}

// ConvertTools converts scribe Tools to genai Tools.
// Exported for testing.
func ConvertTools(tools []scribe.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		// Parameters is always valid JSON from domain types.
		var schema map[string]any
		_ = json.Unmarshal(t.Parameters, &schema)
		decls[i] = &genai.FunctionDeclaration{
			Name:                 string(t.Name),
			Description:          t.Description,
			ParametersJsonSchema: schema,
		}
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// ConvertResponse classifies the first candidate of a Gemini response.
// A function call takes precedence over text. Text is trimmed and parsed for
// call markers. A candidate with neither is an error wrapping
// [scribe.ErrEmptyResponse].
// Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) (scribe.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		reason := ""
		if resp != nil && resp.PromptFeedback != nil {
			reason = string(resp.PromptFeedback.BlockReason)
		}
		if reason != "" {
			return scribe.Response{}, fmt.Errorf("gemini: prompt blocked (%s): %w", reason, scribe.ErrEmptyResponse)
		}
		return scribe.Response{}, fmt.Errorf("gemini: no candidates: %w", scribe.ErrEmptyResponse)
	}
	cand := resp.Candidates[0]

	var (
		text strings.Builder
		call *genai.FunctionCall
	)
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought {
				continue
			}
			if p.FunctionCall != nil && call == nil {
				call = p.FunctionCall
			}
			text.WriteString(p.Text)
		}
	}

	out := scribe.Response{
		Text:          strings.TrimSpace(text.String()),
		RawStopReason: string(cand.FinishReason),
		StopReason:    mapFinishReason(cand.FinishReason),
		Usage:         convertUsage(resp.UsageMetadata),
	}

	switch {
	case call != nil:
		out.Reply = convertCall(call)
		out.StopReason = scribe.StopToolUse
	case out.Text != "":
		out.Reply = marker.Parse(out.Text)
	default:
		return scribe.Response{}, fmt.Errorf("gemini: finish reason %q: %w", cand.FinishReason, scribe.ErrEmptyResponse)
	}
	return out, nil
}

func convertCall(fc *genai.FunctionCall) scribe.Reply {
	name := scribe.ToolName(fc.Name)
	if !name.Valid() {
		return scribe.InvalidToolCall{Tool: name, Err: fmt.Errorf("%q: %w", fc.Name, scribe.ErrToolNotFound)}
	}
	return marker.FromArgs(name, fc.Args)
}

func mapFinishReason(r genai.FinishReason) scribe.StopReason {
	switch r {
	case genai.FinishReasonStop:
		return scribe.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return scribe.StopLength
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent,
		genai.FinishReasonBlocklist, genai.FinishReasonSPII, genai.FinishReasonRecitation:
		return scribe.StopSafety
	default:
		return scribe.StopUnknown
	}
}

func convertUsage(u *genai.GenerateContentResponseUsageMetadata) scribe.Usage {
	if u == nil {
		return scribe.Usage{}
	}
	return scribe.Usage{
		InputTokens:  max(int(u.PromptTokenCount), 0),
		OutputTokens: max(int(u.CandidatesTokenCount), 0),
	}
}
