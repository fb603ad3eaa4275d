package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/careerwise-ai/careerwise/internal/utils"
)

const (
	completionMaxTokens   = 1000
	completionTemperature = 0.7
	completionTopP        = 0.9
)

// Provider is the hosted completion client, speaking the OpenAI wire
// protocol against Groq's endpoint.
type Provider struct {
	client     *openai.Client
	model      string
	maxRetries int
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

func NewProvider(cfg utils.GroqConfig, logger *zap.SugaredLogger) *Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Provider{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		maxRetries: maxRetries,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

func (p *Provider) Offline() bool { return false }

func (p *Provider) Model() string { return p.model }

// Chat requests a single completion, retrying transient failures with
// exponential backoff before giving up. Each attempt runs under the
// configured request timeout; streaming is bounded by the caller's context
// instead.
func (p *Provider) Chat(ctx context.Context, messages []Message) (string, error) {
	var result string
	err := p.doWithRetry(ctx, func() error {
		reqCtx := ctx
		if p.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}

		resp, err := p.client.CreateChatCompletion(reqCtx, p.buildRequest(messages, false))
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion response contained no choices")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	return result, nil
}

// ChatStream opens a streaming completion. Fragments arrive on the content
// channel in provider order; an error (on open or mid-stream) arrives on
// the error channel. Both channels close when the stream is done.
func (p *Provider) ChatStream(ctx context.Context, messages []Message) (<-chan string, <-chan error) {
	contentCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(contentCh)
		defer close(errCh)

		stream, err := p.client.CreateChatCompletionStream(ctx, p.buildRequest(messages, true))
		if err != nil {
			errCh <- fmt.Errorf("open completion stream: %w", err)
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errCh <- fmt.Errorf("read completion stream: %w", err)
				return
			}

			if len(resp.Choices) == 0 {
				continue
			}
			chunk := resp.Choices[0].Delta.Content
			if chunk == "" {
				continue
			}

			select {
			case contentCh <- chunk:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return contentCh, errCh
}

func (p *Provider) buildRequest(messages []Message, stream bool) openai.ChatCompletionRequest {
	wire := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		wire[i] = openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	return openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    wire,
		MaxTokens:   completionMaxTokens,
		Temperature: completionTemperature,
		TopP:        completionTopP,
		Stream:      stream,
	}
}

func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < p.maxRetries-1 {
			wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			p.logger.Debugw("completion request failed, retrying", "attempt", attempt+1, "wait", wait, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}
