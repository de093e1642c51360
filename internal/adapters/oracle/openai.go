package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Naveen701372/Networking-Wingman/internal/domain/model"
	"github.com/Naveen701372/Networking-Wingman/pkg/logger"
	"github.com/Naveen701372/Networking-Wingman/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 8 * time.Second
)

const extractionSystemPrompt = `You listen to one side of a live networking conversation and extract facts about the person being spoken WITH (never the operator).
Respond with a single JSON object, no prose, with any of these optional fields:
{"name":"","company":"","role":"","category":"founder|investor|developer|designer|student|executive|other","summary":"","action_items":[""],"is_new_person":false,"detected_event":""}
Set is_new_person only when the transcript clearly shows the speaker engaging a different person than the one described by the known fields. Omit fields you are not confident about. Respond with {} when nothing new was learned.`

const identitySystemPrompt = `You review person records captured during one networking session and decide which records describe the same real-world person and which fields look wrong.
Respond with a single JSON object, no prose:
{"updates":[{"record_id":"","changes":{"name":"","company":"","role":"","category":"","summary":""},"confidence":0,"reason":""}],"merges":[{"source_id":"","target_id":"","confidence":0,"reason":""}]}
Confidence is 0-100. Only propose a merge when the records are very likely the same person; never merge records with different last names or different companies.`

// Client implements both oracles over an OpenAI-compatible chat-completions
// API. Every call carries a bounded timeout; timeouts and transport errors
// surface as ErrTransport so callers fail open toward inaction.
type Client struct {
	api     openai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithModel sets the chat model.
func WithModel(m string) Option {
	return func(c *Client) {
		if m != "" {
			c.model = m
		}
	}
}

// WithTimeout bounds each oracle round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates an oracle client. The API key is read from
// OPENAI_API_KEY; baseURL may be empty for the default endpoint.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, ErrNoAPIKey
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(key)}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	c := &Client{
		api:     openai.NewClient(reqOpts...),
		model:   defaultModel,
		timeout: defaultTimeout,
		logger:  logger.Get().Named("oracle"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Extract asks the extraction oracle for a candidate.
func (c *Client) Extract(ctx context.Context, transcript string, active *model.Record) (model.Candidate, error) {
	payload := extractionPayload(transcript, active)
	raw, err := c.complete(ctx, extractionSystemPrompt, payload)
	if err != nil {
		return model.Candidate{}, err
	}

	cand, err := ParseCandidate(raw)
	if err != nil {
		metrics.RecordOracleParseFailure()
		c.logger.Debug(ctx, "extraction response unparseable", logger.Error(err))
		return model.Candidate{}, err
	}
	return cand, nil
}

// Review asks the identity oracle for update and merge proposals.
func (c *Client) Review(ctx context.Context, records []*model.Record, transcript string) (Verdict, error) {
	payload, err := reviewPayload(records, transcript)
	if err != nil {
		return Verdict{}, err
	}
	raw, err := c.complete(ctx, identitySystemPrompt, payload)
	if err != nil {
		return Verdict{}, err
	}

	v, err := ParseVerdict(raw)
	if err != nil {
		metrics.RecordOracleParseFailure()
		c.logger.Debug(ctx, "identity response unparseable", logger.Error(err))
		return Verdict{}, err
	}
	return v, nil
}

// complete performs one chat completion with the client timeout applied.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	metrics.RecordOracleLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordOracleError()
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecordOracleError()
		return "", fmt.Errorf("%w: empty choice list", ErrTransport)
	}
	return resp.Choices[0].Message.Content, nil
}

// extractionPayload serializes the transcript window plus the known fields
// of the active card so the oracle can mark person switches.
func extractionPayload(transcript string, active *model.Record) string {
	req := struct {
		Transcript string         `json:"transcript"`
		Known      *candidateWire `json:"known_fields,omitempty"`
	}{Transcript: transcript}
	if active != nil {
		req.Known = &candidateWire{
			Name:     active.Name,
			Company:  active.Company,
			Role:     active.Role,
			Category: string(active.Category),
			Summary:  active.Summary,
		}
	}
	b, _ := json.Marshal(req)
	return string(b)
}

// reviewPayload serializes record snapshots and the transcript tail.
func reviewPayload(records []*model.Record, transcript string) (string, error) {
	req := struct {
		Records    []*model.Record `json:"records"`
		Transcript string          `json:"transcript,omitempty"`
	}{Records: records, Transcript: transcript}
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal review payload: %w", err)
	}
	return string(b), nil
}
