package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/pkg/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const maxResultSize = 20 << 20 // 20MB

// OpenAIGenerator calls an OpenAI-compatible image edit endpoint. The client
// is built per call because every session may bring its own key.
type OpenAIGenerator struct {
	baseURL string
	model   string
	size    string
	logger  *zap.Logger
}

func NewOpenAIGenerator(cfg config.GeneratorConfig, logger *zap.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		size:    cfg.Size,
		logger:  logger,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, image []byte, settings models.PhotoSettings, credential string) ([]byte, error) {
	if credential == "" {
		return nil, &ProviderError{Kind: KindNotFoundOrInvalidCredential, Message: "API key is missing"}
	}

	prompt, err := BuildPrompt(settings)
	if err != nil {
		return nil, err
	}

	// The edit endpoint needs a named multipart file; a temp file gives the
	// client both the name and the content.
	file, err := os.CreateTemp("", "idphoto-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if _, err := file.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind temp file: %w", err)
	}

	req := openai.ImageEditRequest{
		Image:  file,
		Prompt: prompt,
		Model:  g.model,
		N:      1,
		Size:   g.size,
	}
	// gpt-image models always answer with base64 and reject the parameter.
	if !strings.HasPrefix(g.model, "gpt-image") {
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}

	resp, err := g.client(credential).CreateEditImage(ctx, req)
	if err != nil {
		classified := Classify(err)
		g.logger.Warn("Generation request failed",
			zap.String("kind", string(classified.Kind)),
			zap.Int("status", classified.StatusCode),
			zap.Error(err))
		return nil, classified
	}

	return g.decodeResult(ctx, resp)
}

func (g *OpenAIGenerator) client(credential string) *openai.Client {
	clientConfig := openai.DefaultConfig(credential)
	if g.baseURL != "" {
		clientConfig.BaseURL = g.baseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

func (g *OpenAIGenerator) decodeResult(ctx context.Context, resp openai.ImageResponse) ([]byte, error) {
	for _, item := range resp.Data {
		if item.B64JSON != "" {
			data, err := base64.StdEncoding.DecodeString(item.B64JSON)
			if err != nil {
				return nil, &ProviderError{Kind: KindUnknown, Message: "provider returned malformed image data", Err: err}
			}
			return data, nil
		}
		if item.URL != "" {
			data, _, err := utils.DownloadImage(ctx, item.URL, maxResultSize)
			if err != nil {
				return nil, &ProviderError{Kind: KindUnknown, Message: "failed to fetch generated image", Err: err}
			}
			return data, nil
		}
	}

	return nil, &ProviderError{Kind: KindUnknown, Message: "provider returned no image; check the API key and network"}
}
