package transcribe

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI speech-to-text via audio.transcriptions with verbose_json, which
// carries per-segment start/end times.
type openAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a Backend over the OpenAI Whisper API.
func NewOpenAIBackend(apiKey, model string) Backend {
	return &openAIBackend{client: openai.NewClient(apiKey), model: model}
}

func (o *openAIBackend) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, Classify(err)
	}

	segs := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segs = append(segs, Segment{
			StartSec: s.Start,
			EndSec:   s.End,
			Text:     strings.TrimSpace(s.Text),
		})
	}
	return segs, nil
}
