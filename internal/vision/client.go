// Package vision extracts calendar events from images through the Azure
// OpenAI chat-completions endpoint.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"eventsnap/internal/config"
)

// tokenScope is the Entra ID scope for Azure Cognitive Services.
const tokenScope = "https://cognitiveservices.azure.com/.default"

const systemPrompt = `You are an AI assistant specialized in extracting calendar events from images.
Analyze the provided image and extract any calendar events, meetings, appointments, or scheduled activities you can identify.

For each event you find, extract the following information:
- title: The name or description of the event
- date: The date in a readable format (e.g., "2025-06-08", "June 8, 2025", "Monday, June 8")
- time: The time if specified (e.g., "2:00 PM", "14:00", "2:00-3:00 PM")
- location: The location or venue if mentioned
- description: Any additional details about the event

Return your response as a JSON array of objects. Each object should have the keys: title, date, time, location, description.
If any field is not available, use an empty string for that field.

If no calendar events are found in the image, return an empty array: []`

const userPrompt = "Please analyze this image and extract any calendar events, appointments, or scheduled activities you can find. Return the results as a JSON array."

// Outcome classifies the result of one extraction call so callers can render
// distinct messages instead of conflating "found nothing" with "failed".
type Outcome string

const (
	OutcomeOK                Outcome = "ok"
	OutcomeNotConfigured     Outcome = "not_configured"
	OutcomeTransportError    Outcome = "transport_error"
	OutcomeMalformedResponse Outcome = "malformed_response"
)

// EventDraft is one candidate calendar entry suggested by the model. All
// fields are free text exactly as extracted.
type EventDraft struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Extraction is the full result of one call. Raw carries the unprocessed
// response text so it can be shown for manual inspection regardless of
// outcome.
type Extraction struct {
	Outcome Outcome
	Events  []EventDraft
	Raw     string
	Err     error
}

// Status describes the client configuration for the settings page.
type Status struct {
	Configured  bool   `json:"configured"`
	HasEndpoint bool   `json:"has_endpoint"`
	HasAPIKey   bool   `json:"has_api_key"`
	Deployment  string `json:"deployment_name"`
	AuthMethod  string `json:"auth_method"`
}

// Client calls the Azure OpenAI vision deployment. Authentication uses the
// API key when configured, otherwise a workload-identity token.
type Client struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
	credential azcore.TokenCredential
	log        *slog.Logger
}

// NewClient creates a vision client from configuration. A missing endpoint
// is a soft failure: the client reports itself unconfigured and every
// extraction returns OutcomeNotConfigured without touching the network.
func NewClient(cfg *config.Config, log *slog.Logger) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(cfg.AzureOpenAIEndpoint, "/"),
		apiKey:     cfg.AzureOpenAIAPIKey,
		deployment: cfg.AzureOpenAIDeployment,
		apiVersion: cfg.AzureOpenAIAPIVersion,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}

	if c.endpoint == "" {
		log.Warn("AZURE_OPENAI_ENDPOINT not set; calendar extraction is disabled")
		return c
	}

	if c.apiKey == "" {
		credential, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			log.Error("failed to initialize workload identity credential", "error", err)
			return c
		}
		c.credential = credential
		log.Info("vision client using workload identity authentication")
	} else {
		log.Info("vision client using API key authentication")
	}

	return c
}

// IsConfigured reports whether extraction calls can be attempted.
func (c *Client) IsConfigured() bool {
	return c.endpoint != "" && (c.apiKey != "" || c.credential != nil)
}

// Status returns the configuration summary shown on the extraction page.
func (c *Client) Status() Status {
	status := Status{
		Configured:  c.IsConfigured(),
		HasEndpoint: c.endpoint != "",
		HasAPIKey:   c.apiKey != "",
		Deployment:  c.deployment,
		AuthMethod:  "none",
	}
	if c.endpoint != "" {
		if c.apiKey != "" {
			status.AuthMethod = "api_key"
		} else if c.credential != nil {
			status.AuthMethod = "workload_identity"
		}
	}
	return status
}

// ExtractEvents submits the image to the vision deployment and returns the
// classified result. The call is a single blocking round trip; there is no
// retry.
func (c *Client) ExtractEvents(ctx context.Context, img image.Image) Extraction {
	if !c.IsConfigured() {
		return Extraction{Outcome: OutcomeNotConfigured}
	}

	jpegBytes, err := encodeJPEG(img)
	if err != nil {
		return Extraction{Outcome: OutcomeTransportError, Err: fmt.Errorf("failed to encode image: %w", err)}
	}

	raw, err := c.complete(ctx, base64.StdEncoding.EncodeToString(jpegBytes))
	if err != nil {
		c.log.Error("vision completion failed", "error", err)
		return Extraction{Outcome: OutcomeTransportError, Err: err}
	}

	events, err := parseEvents(raw)
	if err != nil {
		c.log.Warn("vision response was not a JSON event array", "error", err)
		return Extraction{Outcome: OutcomeMalformedResponse, Raw: raw, Err: err}
	}

	c.log.Info("extracted calendar events from image", "count", len(events))
	return Extraction{Outcome: OutcomeOK, Events: events, Raw: raw}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs the chat-completions round trip and returns the model's
// response text.
func (c *Client) complete(ctx context.Context, base64Image string) (string, error) {
	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL:    "data:image/jpeg;base64," + base64Image,
					Detail: "high",
				}},
			}},
		},
		MaxTokens: 2000,
		// Low temperature biases toward deterministic, literal extraction.
		Temperature: 0.1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	} else {
		token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{tokenScope}})
		if err != nil {
			return "", fmt.Errorf("failed to acquire access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("completion endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
