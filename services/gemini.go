package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"fashionapi/looks"
	"fashionapi/stylist"

	"google.golang.org/genai"
)

// LLMModelName names the Gemini models used by the app.
type LLMModelName int32

const (
	Pro25 LLMModelName = iota
	Flash25
	FlashLite25
	Flash20
	Flash25Image
)

func (t LLMModelName) String() string {
	switch t {
	case Pro25:
		return "gemini-2.5-pro"
	case Flash25:
		return "gemini-2.5-flash"
	case FlashLite25:
		return "gemini-2.5-flash-lite"
	case Flash25Image:
		return "gemini-2.5-flash-image-preview"
	case Flash20:
		return "gemini-2.0-flash"
	default:
		return "gemini-2.0-flash"
	}
}

func floatPointer(f float32) *float32 {
	return &f
}

var errGeminiDisabled = errors.New("gemini client is not configured")

// GoogleLLMProcessor backs three oracles with Gemini: outfit selection,
// outfit description and virtual try-on.
type GoogleLLMProcessor struct {
	client *genai.Client

	StylistModel  LLMModelName
	DescribeModel LLMModelName
	TryOnModel    LLMModelName
}

// NewGoogleLLMProcessor returns a disabled processor when apiKey is empty.
func NewGoogleLLMProcessor(ctx context.Context, apiKey string) (*GoogleLLMProcessor, error) {
	processor := &GoogleLLMProcessor{
		StylistModel:  Flash25,
		DescribeModel: FlashLite25,
		TryOnModel:    Flash25Image,
	}
	if apiKey == "" {
		log.Println("[Gemini] GOOGLE_API_KEY not set, Gemini oracles disabled")
		return processor, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	processor.client = client
	return processor, nil
}

func (p *GoogleLLMProcessor) Available() bool {
	return p != nil && p.client != nil
}

var selectionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"selected_ids": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"style_tips": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"selected_ids", "style_tips"},
}

func (p *GoogleLLMProcessor) SelectOutfit(ctx context.Context, req stylist.OracleRequest) (*stylist.OracleSelection, error) {
	if !p.Available() {
		return nil, errGeminiDisabled
	}
	result, err := p.client.Models.GenerateContent(ctx, p.StylistModel.String(),
		[]*genai.Content{{Parts: []*genai.Part{{Text: stylist.BuildPrompt(req)}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   selectionSchema,
			CandidateCount:   1,
			Temperature:      floatPointer(0.4),
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: "You are a professional fashion stylist. Answer only with the requested JSON."}},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("gemini stylist: %w", err)
	}
	logUsage("stylist", result)
	text, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		return nil, err
	}
	return stylist.ParseSelection(text.Text)
}

func (p *GoogleLLMProcessor) DescribeOutfit(ctx context.Context, items []stylist.Garment) (string, error) {
	if !p.Available() {
		return "", errGeminiDisabled
	}
	var lines []string
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s)", item.Name, item.Category, strings.Join(item.Colors, "/")))
	}
	prompt := "Describe this outfit in one short sentence that an image generator can render. Mention colors and garment types only.\n" + strings.Join(lines, "\n")

	result, err := p.client.Models.GenerateContent(ctx, p.DescribeModel.String(),
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			CandidateCount:  1,
			MaxOutputTokens: 200,
			Temperature:     floatPointer(0.7),
		})
	if err != nil {
		return "", fmt.Errorf("gemini describe: %w", err)
	}
	logUsage("describe", result)
	text, err := GetFirstCandidateTextWithThoughts(result)
	if err != nil {
		return "", err
	}
	sentence := strings.TrimSpace(text.Text)
	if sentence == "" {
		return "", errors.New("gemini returned an empty description")
	}
	return sentence, nil
}

const tryOnInstruction = `Edit the first image, a fashion model photo, so that the same model wears the garment shown in the second image. Keep the model's face, body proportions, pose and the plain studio background unchanged. Reproduce the garment faithfully including its color, pattern and cut. Output a single full-body, photorealistic, studio-lit fashion photo.`

func (p *GoogleLLMProcessor) TryOn(ctx context.Context, modelPhoto []byte, garmentPhoto []byte, garmentDescription string) (*looks.Image, error) {
	if !p.Available() {
		return nil, errGeminiDisabled
	}
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: http.DetectContentType(modelPhoto), Data: modelPhoto}},
		{InlineData: &genai.Blob{MIMEType: http.DetectContentType(garmentPhoto), Data: garmentPhoto}},
		{Text: "Garment: " + garmentDescription},
	}
	result, err := p.client.Models.GenerateContent(ctx, p.TryOnModel.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount: 1,
		Temperature:    floatPointer(1),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: tryOnInstruction}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini try-on: %w", err)
	}
	logUsage("try-on", result)
	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("content violation: %s", result.PromptFeedback.BlockReasonMessage)
	}
	images, err := GetAllInlineImages(result)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errors.New("gemini try-on returned no image")
	}
	return &looks.Image{Data: images[0], MIMEType: http.DetectContentType(images[0])}, nil
}

func logUsage(operation string, result *genai.GenerateContentResponse) {
	if result == nil || result.UsageMetadata == nil {
		return
	}
	log.Printf("[Gemini] %s tokens: input=%d output=%d thoughts=%d total=%d", operation,
		result.UsageMetadata.PromptTokenCount,
		result.UsageMetadata.CandidatesTokenCount,
		result.UsageMetadata.ThoughtsTokenCount,
		result.UsageMetadata.TotalTokenCount)
}

type ResponseWithThoughts struct {
	Thoughts string `json:"thoughts"`
	Text     string `json:"text"`
}

func GetAllInlineImages(result *genai.GenerateContentResponse) ([][]byte, error) {
	if result == nil {
		return nil, errors.New("empty gemini response")
	}
	var images [][]byte
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content blocked by safety setting: %s", rating.Category)
			}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "image/") && len(part.InlineData.Data) > 0 {
				images = append(images, part.InlineData.Data)
			}
		}
	}
	return images, nil
}

func GetFirstCandidateTextWithThoughts(result *genai.GenerateContentResponse) (*ResponseWithThoughts, error) {
	if result == nil {
		return nil, errors.New("empty gemini response")
	}
	var thinkingContent string
	for _, c := range result.Candidates {
		for _, rating := range c.SafetyRatings {
			if rating.Blocked {
				return nil, fmt.Errorf("content violation: %s", rating.Category)
			}
		}
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.Thought && part.Text != "" {
				thinkingContent = part.Text
			}
		}
	}
	return &ResponseWithThoughts{
		Thoughts: thinkingContent,
		Text:     result.Text(),
	}, nil
}
