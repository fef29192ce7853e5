package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const cloudflareBase = "https://api.cloudflare.com/client/v4"

// Cloudflare Workers AI backend.
// POST {base}/accounts/{account_id}/ai/run/{model} with a bearer token.
type cloudflareBackend struct {
	accountID string
	apiToken  string
	model     string
	baseURL   string
	client    *http.Client
}

// NewCloudflareBackend builds a Backend over Cloudflare Workers AI.
func NewCloudflareBackend(accountID, apiToken, model string) Backend {
	return &cloudflareBackend{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		baseURL:   cloudflareBase,
		client:    &http.Client{Timeout: 10 * time.Minute},
	}
}

type cfResp struct {
	Success bool `json:"success"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Result json.RawMessage `json:"result"`
}

type cfWhisperResult struct {
	Text  string `json:"text"`
	Words []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

func (c *cloudflareBackend) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, ClassifyStatus(resp.StatusCode,
			fmt.Errorf("cloudflare http %d: %s", resp.StatusCode, string(b)))
	}

	var cr cfResp
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode cloudflare response: %w", err)
	}
	if !cr.Success {
		msg := "cloudflare response not successful"
		if len(cr.Errors) > 0 && cr.Errors[0].Message != "" {
			msg = cr.Errors[0].Message
		}
		return nil, fmt.Errorf("cloudflare: %s", msg)
	}
	var wr cfWhisperResult
	if err := json.Unmarshal(cr.Result, &wr); err != nil {
		return nil, fmt.Errorf("unexpected cloudflare result: %w", err)
	}

	// Word timings when the model provides them; otherwise the whole chunk
	// becomes one untimed segment anchored at the chunk start.
	if len(wr.Words) == 0 {
		text := strings.TrimSpace(wr.Text)
		if text == "" {
			return nil, nil
		}
		return []Segment{{Text: text}}, nil
	}
	segs := make([]Segment, 0, len(wr.Words))
	for _, w := range wr.Words {
		segs = append(segs, Segment{StartSec: w.Start, EndSec: w.End, Text: strings.TrimSpace(w.Word)})
	}
	return segs, nil
}
