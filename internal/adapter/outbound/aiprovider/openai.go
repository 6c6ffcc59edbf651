package aiprovider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/quickai/server/internal/port/outbound"
)

// ErrEmptyResponse is returned when the provider answers without content.
var ErrEmptyResponse = errors.New("provider returned no content")

// Config holds the OpenAI-compatible endpoint settings.
type Config struct {
	BaseURL    string
	APIKey     string
	TextModel  string
	ImageModel string
	ImageSize  string
}

// OpenAIClient talks to an OpenAI-compatible API. It implements both
// outbound.TextGeneratorPort and outbound.ImageGeneratorPort.
type OpenAIClient struct {
	client *http.Client
	cfg    Config
}

// NewOpenAIClient creates a new client using the given HTTP client.
func NewOpenAIClient(client *http.Client, cfg Config) *OpenAIClient {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ImageSize == "" {
		cfg.ImageSize = "1024x1024"
	}
	return &OpenAIClient{client: client, cfg: cfg}
}

type apiError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// do sends req and decodes a successful JSON body into out.
func (c *OpenAIClient) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
			return fmt.Errorf("openai error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("openai error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *OpenAIClient) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Complete runs a single-turn chat completion.
func (c *OpenAIClient) Complete(ctx context.Context, req *outbound.TextRequest) (string, error) {
	var resp chatResponse
	err := c.postJSON(ctx, "/chat/completions", chatRequest{
		Model:       c.cfg.TextModel,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size,omitempty"`
	ResponseFormat string `json:"response_format,omitempty"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

// responseFormat returns the explicit format older image models need.
// Newer models always answer with base64 and reject the parameter.
func (c *OpenAIClient) responseFormat() string {
	if strings.HasPrefix(c.cfg.ImageModel, "dall-e") {
		return "b64_json"
	}
	return ""
}

func decodeImage(resp *imageResponse) (*outbound.Image, error) {
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &outbound.Image{Data: data, ContentType: http.DetectContentType(data)}, nil
}

// Generate creates one image from the prompt.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*outbound.Image, error) {
	var resp imageResponse
	err := c.postJSON(ctx, "/images/generations", imageRequest{
		Model:          c.cfg.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           c.cfg.ImageSize,
		ResponseFormat: c.responseFormat(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return decodeImage(&resp)
}

// Edit sends the source image and prompt to the image edit endpoint.
func (c *OpenAIClient) Edit(ctx context.Context, source *outbound.Image, prompt string) (*outbound.Image, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"model":  c.cfg.ImageModel,
		"prompt": prompt,
		"n":      "1",
		"size":   c.cfg.ImageSize,
	}
	if f := c.responseFormat(); f != "" {
		fields["response_format"] = f
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="image.png"`)
	h.Set("Content-Type", source.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(source.Data); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/images/edits", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp imageResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return decodeImage(&resp)
}

// Compile-time interface checks
var (
	_ outbound.TextGeneratorPort  = (*OpenAIClient)(nil)
	_ outbound.ImageGeneratorPort = (*OpenAIClient)(nil)
)
