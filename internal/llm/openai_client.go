// ABOUTME: OpenAI client for speech-to-text transcription and text embeddings
// ABOUTME: Uses whisper-1 for transcription and text-embedding-3-small for embeddings (configurable)
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultTranscriptionModel is the default speech-to-text model
	DefaultTranscriptionModel = openai.Whisper1
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
)

var (
	// ErrTranscription marks a failed speech-to-text call
	ErrTranscription = errors.New("transcription service error")
	// ErrEmbedding marks a failed embedding call
	ErrEmbedding = errors.New("embedding service error")
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	EmbeddingModel     openai.EmbeddingModel
	Timeout            time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:             apiKey,
		TranscriptionModel: DefaultTranscriptionModel,
		EmbeddingModel:     DefaultEmbeddingModel,
		Timeout:            2 * time.Minute,
	}
}

// OpenAIClient wraps the OpenAI API client. Calls are not retried.
type OpenAIClient struct {
	client             *openai.Client
	transcriptionModel string
	embeddingModel     openai.EmbeddingModel
	timeout            time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	transcriptionModel := config.TranscriptionModel
	if transcriptionModel == "" {
		transcriptionModel = DefaultTranscriptionModel
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &OpenAIClient{
		client:             openai.NewClientWithConfig(clientConfig),
		transcriptionModel: transcriptionModel,
		embeddingModel:     embeddingModel,
		timeout:            config.Timeout,
	}, nil
}

// withTimeout bounds a single remote call; a zero timeout leaves ctx untouched
func (c *OpenAIClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Transcribe returns the recognized text for the whole audio file at path
func (c *OpenAIClient) Transcribe(ctx context.Context, path string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcriptionModel,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	return resp.Text, nil
}

// GenerateEmbedding returns the embedding vector for text
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: c.embeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", ErrEmbedding)
	}

	// Convert []float32 to []float64
	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}

	return embedding64, nil
}
