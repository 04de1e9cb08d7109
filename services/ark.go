package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"fashionapi/stylist"

	"github.com/cloudwego/eino-ext/components/model/ark"
	mdl "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const submitOutfitTool = "submit_outfit"

// ArkStylist is the secondary stylist oracle. The model must answer through a
// forced tool call so the selection arrives as structured arguments.
type ArkStylist struct {
	chatModel *ark.ChatModel
}

// NewArkStylist returns a disabled stylist when apiKey or model is empty.
func NewArkStylist(ctx context.Context, baseURL, apiKey, model string) (*ArkStylist, error) {
	if apiKey == "" || model == "" {
		log.Println("[Ark] ARK_API_KEY or ARK_MODEL not set, secondary stylist disabled")
		return &ArkStylist{}, nil
	}
	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
	})
	if err != nil {
		return nil, fmt.Errorf("init ark chat model: %w", err)
	}
	return &ArkStylist{chatModel: cm}, nil
}

func (a *ArkStylist) Available() bool {
	return a != nil && a.chatModel != nil
}

var outfitTool = &schema.ToolInfo{
	Name: submitOutfitTool,
	Desc: "Submit the final outfit: one candidate id per requested slot and short style tips",
	ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"selected_ids": {
			Type:     schema.Array,
			Desc:     "Candidate ids, one per slot",
			ElemInfo: &schema.ParameterInfo{Type: schema.String},
			Required: true,
		},
		"style_tips": {
			Type:     schema.Array,
			Desc:     "Two or three short styling tips",
			ElemInfo: &schema.ParameterInfo{Type: schema.String},
			Required: true,
		},
	}),
}

func (a *ArkStylist) SelectOutfit(ctx context.Context, req stylist.OracleRequest) (*stylist.OracleSelection, error) {
	if !a.Available() {
		return nil, errors.New("ark chat model is not configured")
	}
	sys := schema.SystemMessage("You are a fashion stylist. Call the tool " + submitOutfitTool + " exactly once with your final choice.")
	user := schema.UserMessage(stylist.BuildPrompt(req))

	msg, err := a.chatModel.Generate(ctx,
		[]*schema.Message{sys, user},
		mdl.WithTools([]*schema.ToolInfo{outfitTool}),
		mdl.WithToolChoice(schema.ToolChoiceForced),
	)
	if err != nil {
		return nil, fmt.Errorf("ark generate: %w", err)
	}
	return selectionFromMessage(msg)
}

// selectionFromMessage prefers the tool call and falls back to JSON content.
func selectionFromMessage(msg *schema.Message) (*stylist.OracleSelection, error) {
	if msg == nil {
		return nil, errors.New("ark returned no message")
	}
	for _, tc := range msg.ToolCalls {
		if strings.EqualFold(tc.Function.Name, submitOutfitTool) {
			return stylist.ParseSelection(tc.Function.Arguments)
		}
	}
	if strings.TrimSpace(msg.Content) != "" {
		return stylist.ParseSelection(msg.Content)
	}
	return nil, errors.New("ark did not call " + submitOutfitTool)
}
