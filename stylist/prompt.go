package stylist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fashionapi/cascade"
)

type promptGarment struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Price    float64 `json:"price"`
}

func colorOrUnknown(g Garment) string {
	if c := g.FirstColor(); c != "" {
		return c
	}
	return "Unknown"
}

// IDList accepts ids encoded either as JSON strings or numbers.
type IDList []string

func (ids *IDList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(IDList, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return fmt.Errorf("unsupported id %s", string(item))
		}
		out = append(out, n.String())
	}
	*ids = out
	return nil
}

// BuildPrompt renders the stylist instructions shared by every oracle backend.
func BuildPrompt(req OracleRequest) string {
	candidates := make([]promptGarment, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidates = append(candidates, promptGarment{
			ID:       strconv.FormatUint(uint64(c.ID), 10),
			Name:     c.Name,
			Category: c.Category,
			Color:    colorOrUnknown(c),
			Price:    c.Price,
		})
	}
	candidatesJSON, _ := json.Marshal(candidates)
	mainJSON, _ := json.Marshal(map[string]string{
		"name":        req.Main.Name,
		"category":    req.Main.Category,
		"color":       colorOrUnknown(req.Main),
		"description": req.Main.Description,
	})
	slots := make([]string, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, string(slot))
	}
	gender := req.Gender
	if gender == "" {
		gender = "Unisex"
	}

	return fmt.Sprintf(`You are a professional fashion stylist.
Main product: %s

Candidate products:
%s

Select exactly one candidate for each of these outfit slots: %s.
The outfit is for a '%s' occasion for %s and must be color-coordinated and appropriate for the occasion.
Only use ids from the candidate list.

Return ONLY a valid JSON object with this structure:
{"selected_ids": ["id1", "id2"], "style_tips": ["Tip 1", "Tip 2"]}
Do not include markdown formatting or any text outside the JSON.`,
		mainJSON, candidatesJSON, strings.Join(slots, ", "), req.Occasion, gender)
}

// ParseSelection decodes an oracle reply, tolerating ```json fences.
func ParseSelection(text string) (*OracleSelection, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var selection OracleSelection
	if err := json.Unmarshal([]byte(clean), &selection); err != nil {
		return nil, fmt.Errorf("%w: malformed stylist response: %w", cascade.ErrContent, err)
	}
	return &selection, nil
}
