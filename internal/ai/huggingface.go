package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type HFProvider struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewHFProvider(baseURL, apiKey, model string) *HFProvider {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	if model == "" {
		model = "gpt2"
	}
	return &HFProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type hfReq struct {
	Inputs string `json:"inputs"`
}

type hfResp struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error,omitempty"`
}

func (p *HFProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.Client == nil {
		return "", errors.New("huggingface: http client is nil")
	}

	b, err := json.Marshal(hfReq{Inputs: prompt})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s", p.BaseURL, p.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("huggingface: status %d", resp.StatusCode)
	}

	// The inference API answers either a single object or a one-element
	// array depending on the model pipeline. Accept both.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}

	var single hfResp
	if err := json.Unmarshal(raw, &single); err == nil && (single.GeneratedText != "" || single.Error != "") {
		if single.Error != "" {
			return "", errors.New(single.Error)
		}
		return single.GeneratedText, nil
	}

	var many []hfResp
	if err := json.Unmarshal(raw, &many); err != nil {
		return "", err
	}
	if len(many) == 0 {
		return "", errors.New("huggingface: empty response")
	}
	if many[0].Error != "" {
		return "", errors.New(many[0].Error)
	}
	return many[0].GeneratedText, nil
}
