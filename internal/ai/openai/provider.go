// Package openai implements models.Backend on the OpenAI chat completions API.
// The same client serves any server exposing an OpenAI-compatible endpoint.
//
// Only image media can be sent: chat completions accept image_url parts but no
// video input, so a prompt carrying a video item fails with
// models.ErrInvalidResponse before any request is made.
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kiranshivaraju/radassist/internal/config"
	"github.com/kiranshivaraju/radassist/internal/media"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

const maxTokens = 2048

// Options configures a Provider. Name is reported by Provider.Name and used in metrics.
type Options struct {
	Name       string
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
}

// Provider implements models.Backend using the go-openai client.
type Provider struct {
	name       string
	client     *goopenai.Client
	model      string
	imageModel string
}

// New builds a Provider from opts.
func New(opts Options) *Provider {
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	name := opts.Name
	if name == "" {
		name = "openai"
	}
	return &Provider{
		name:       name,
		client:     goopenai.NewClientWithConfig(cfg),
		model:      opts.Model,
		imageModel: opts.ImageModel,
	}
}

// NewProvider builds the hosted OpenAI provider.
func NewProvider(cfg config.OpenAIConfig) *Provider {
	return New(Options{
		Name:       "openai",
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		ImageModel: cfg.ImageModel,
	})
}

func (p *Provider) Name() string { return p.name }

// Generate runs one chat completion. When the request asks for the image modality
// an image is generated from the text parts of the prompt as well.
func (p *Provider) Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	parts, err := toParts(req.Parts)
	if err != nil {
		return models.GenerateResponse{}, err
	}

	chatReq := goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, MultiContent: parts},
		},
	}
	if isReasoningModel(model) {
		chatReq.MaxCompletionTokens = maxTokens
	} else {
		chatReq.MaxTokens = maxTokens
	}
	if req.Schema != nil {
		def := req.Schema.Definition
		chatReq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: &def,
				Strict: true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return models.GenerateResponse{}, classifyError(ctx, err)
	}
	if len(resp.Choices) == 0 {
		return models.GenerateResponse{}, fmt.Errorf("%w: no choices returned", models.ErrInvalidResponse)
	}

	out := models.GenerateResponse{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
	}
	if !req.WantsImage() {
		return out, nil
	}

	img, err := p.generateImage(ctx, req.Parts)
	if err != nil {
		return models.GenerateResponse{}, err
	}
	out.Media = append(out.Media, img)
	return out, nil
}

// generateImage renders the explanation image. The first image part of the
// prompt is the item being explained and is sent as the source of an image
// edit; a prompt without one falls back to plain generation.
func (p *Provider) generateImage(ctx context.Context, parts []models.PromptPart) (models.MediaRef, error) {
	var sb strings.Builder
	var source *models.MediaRef
	for _, part := range parts {
		switch {
		case !part.IsMedia():
			sb.WriteString(part.Text)
		case source == nil:
			source = part.Media
		}
	}
	prompt := strings.TrimSpace(sb.String())

	if source == nil {
		return p.createImage(ctx, prompt)
	}
	return p.editImage(ctx, prompt, source)
}

func (p *Provider) createImage(ctx context.Context, prompt string) (models.MediaRef, error) {
	imgReq := goopenai.ImageRequest{
		Prompt: prompt,
		Model:  p.imageModel,
		N:      1,
		Size:   goopenai.CreateImageSize1024x1024,
	}
	// gpt-image models always answer in base64 and reject the parameter.
	if strings.HasPrefix(p.imageModel, "dall-e") {
		imgReq.ResponseFormat = goopenai.CreateImageResponseFormatB64JSON
	}

	resp, err := p.client.CreateImage(ctx, imgReq)
	if err != nil {
		return models.MediaRef{}, classifyError(ctx, err)
	}
	return imageRef(resp)
}

func (p *Provider) editImage(ctx context.Context, prompt string, source *models.MediaRef) (models.MediaRef, error) {
	mimeType, data, err := media.Decode(source.URL)
	if err != nil {
		return models.MediaRef{}, fmt.Errorf("%w: explanation source: %v", models.ErrInvalidResponse, err)
	}
	_, subtype, _ := strings.Cut(mimeType, "/")

	resp, err := p.client.CreateEditImage(ctx, goopenai.ImageEditRequest{
		Image:  goopenai.WrapReader(bytes.NewReader(data), "item."+subtype, mimeType),
		Prompt: prompt,
		Model:  p.imageModel,
		N:      1,
		Size:   goopenai.CreateImageSize1024x1024,
		// The edit form always carries response_format, so ask for base64 explicitly.
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return models.MediaRef{}, classifyError(ctx, err)
	}
	return imageRef(resp)
}

func imageRef(resp goopenai.ImageResponse) (models.MediaRef, error) {
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return models.MediaRef{}, fmt.Errorf("%w: no image returned", models.ErrInvalidResponse)
	}
	return models.MediaRef{
		URL:      "data:image/png;base64," + resp.Data[0].B64JSON,
		MIMEType: "image/png",
	}, nil
}

func toParts(parts []models.PromptPart) ([]goopenai.ChatMessagePart, error) {
	out := make([]goopenai.ChatMessagePart, 0, len(parts))
	for _, part := range parts {
		if !part.IsMedia() {
			out = append(out, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeText,
				Text: part.Text,
			})
			continue
		}
		if kind := mediaKind(part.Media); kind != models.MediaKindImage {
			return nil, fmt.Errorf("%w: %s media cannot be sent to a chat completions endpoint",
				models.ErrInvalidResponse, kind)
		}
		out = append(out, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{
				URL:    part.Media.URL,
				Detail: goopenai.ImageURLDetailAuto,
			},
		})
	}
	return out, nil
}

func mediaKind(ref *models.MediaRef) models.MediaKind {
	mimeType := ref.MIMEType
	if mimeType == "" {
		mimeType, _, _ = media.Decode(ref.URL)
	}
	kind, ok := media.KindOf(mimeType)
	if !ok {
		return models.MediaKind("unknown")
	}
	return kind
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// classifyError maps client failures onto the backend sentinels.
func classifyError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
}

func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", models.ErrQuotaExceeded, err)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
	default:
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
}

var _ models.Backend = (*Provider)(nil)
