package stylist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"fashionapi/cascade"
)

const (
	PoolCap               = 100
	PrimaryCandidateCap   = 100
	SecondaryCandidateCap = 30
	PrimaryTimeout        = 30 * time.Second
	SecondaryTimeout      = 20 * time.Second
	minOracleItems        = 2

	EmptyPoolMessage = "We could not find complementary pieces for this item yet. Check back soon!"
	NoMatchMessage   = "None of the available pieces fit the outfit slots for this item."
	scorerMessage    = "Selected by color harmony, occasion fit and price balance."
	randomMessage    = "A fresh mix of pieces picked from the catalog."
)

var (
	ErrInvalidProduct   = errors.New("product category is required")
	ErrTooFewSelections = fmt.Errorf("oracle selected too few items: %w", cascade.ErrContent)
	errNoCandidates     = errors.New("no candidates for any required slot")
)

// Catalog is the read side of product persistence.
type Catalog interface {
	Candidates(ctx context.Context, categories []string, excludeID uint, limit int) ([]Garment, error)
}

type OracleRequest struct {
	Main       Garment
	Candidates []Garment
	Occasion   string
	Gender     string
	Slots      []ProductType
}

// OracleSelection is the strict JSON contract expected from stylist oracles.
type OracleSelection struct {
	SelectedIDs IDList   `json:"selected_ids"`
	StyleTips   []string `json:"style_tips"`
}

// Oracle is an external stylist that picks one candidate id per slot.
type Oracle interface {
	Available() bool
	SelectOutfit(ctx context.Context, req OracleRequest) (*OracleSelection, error)
}

type Request struct {
	Product  Garment
	Occasion string
	Gender   string
}

type Recommendation struct {
	Items       []Garment `json:"items"`
	Explanation string    `json:"explanation"`
	StyleTips   []string  `json:"style_tips"`
	Source      string    `json:"source"`
}

type pool struct {
	request    Request
	required   []ProductType
	candidates []Garment
}

type Recommender struct {
	catalog Catalog
	lists   TypeLists
	tiers   []cascade.Tier[*pool, Recommendation]

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRecommender wires the fallback chain primary -> secondary -> scorer -> random.
// Either oracle may be nil. A nil rng is seeded from the clock.
func NewRecommender(catalog Catalog, primary, secondary Oracle, rng *rand.Rand) *Recommender {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &Recommender{catalog: catalog, lists: DefaultTypeLists, rng: rng}
	r.tiers = []cascade.Tier[*pool, Recommendation]{
		cascade.NewTier("primary_oracle", PrimaryTimeout, r.oracleAttempt(primary, PrimaryCandidateCap)).WithBreaker(3, time.Minute),
		cascade.NewTier("secondary_oracle", SecondaryTimeout, r.oracleAttempt(secondary, SecondaryCandidateCap)).WithBreaker(3, time.Minute),
		cascade.NewTier("scorer", 0, r.scorerAttempt),
		cascade.NewTier("random", 0, r.randomAttempt),
	}
	return r
}

func (r *Recommender) Recommend(ctx context.Context, req Request) (Recommendation, error) {
	if strings.TrimSpace(req.Product.Category) == "" {
		return Recommendation{}, ErrInvalidProduct
	}
	category := Classify(req.Product.Category)
	required := RequiredTypes(category)

	candidates, err := r.catalog.Candidates(ctx, r.lists.Categories(required), req.Product.ID, PoolCap)
	if err != nil {
		return Recommendation{}, fmt.Errorf("fetch candidates: %w", err)
	}
	if len(candidates) > PoolCap {
		candidates = candidates[:PoolCap]
	}
	log.Printf("[Recommend] %q classified as %s, %d candidates for %v", req.Product.Name, category, len(candidates), required)
	if len(candidates) == 0 {
		return Recommendation{
			Items:       []Garment{},
			Explanation: EmptyPoolMessage,
			StyleTips:   []string{EmptyPoolMessage},
			Source:      "empty",
		}, nil
	}

	out, source, err := cascade.Run(ctx, &pool{request: req, required: required, candidates: candidates}, r.tiers...)
	if err != nil {
		return Recommendation{
			Items:       []Garment{},
			Explanation: NoMatchMessage,
			StyleTips:   []string{NoMatchMessage},
			Source:      "none",
		}, nil
	}
	out.Source = source
	return out, nil
}

func (r *Recommender) oracleAttempt(oracle Oracle, limit int) cascade.AttemptFunc[*pool, Recommendation] {
	return func(ctx context.Context, p *pool) (Recommendation, error) {
		if oracle == nil || !oracle.Available() {
			return Recommendation{}, cascade.ErrUnavailable
		}
		candidates := p.candidates
		if len(candidates) > limit {
			candidates = candidates[:limit]
		}
		selection, err := oracle.SelectOutfit(ctx, OracleRequest{
			Main:       p.request.Product,
			Candidates: candidates,
			Occasion:   p.request.Occasion,
			Gender:     p.request.Gender,
			Slots:      p.required,
		})
		if err != nil {
			return Recommendation{}, err
		}
		if selection == nil {
			return Recommendation{}, fmt.Errorf("%w: empty selection", ErrTooFewSelections)
		}
		items := r.resolveSelection(selection.SelectedIDs, candidates)
		if len(items) < minOracleItems {
			return Recommendation{}, fmt.Errorf("%w: %d resolved", ErrTooFewSelections, len(items))
		}
		tips := nonEmpty(selection.StyleTips)
		return Recommendation{
			Items:       items,
			StyleTips:   tips,
			Explanation: strings.Join(tips, " "),
		}, nil
	}
}

// resolveSelection maps oracle ids back onto the candidates it was shown,
// dropping unknown ids, duplicates and second picks for the same slot.
func (r *Recommender) resolveSelection(ids []string, candidates []Garment) []Garment {
	byID := make(map[string]Garment, len(candidates))
	for _, candidate := range candidates {
		byID[strconv.FormatUint(uint64(candidate.ID), 10)] = candidate
	}
	items := []Garment{}
	taken := map[ProductType]bool{}
	for _, id := range ids {
		candidate, ok := byID[strings.TrimSpace(id)]
		if !ok {
			continue
		}
		slot := ProductTypeOf(candidate.Category, r.lists)
		if taken[slot] {
			continue
		}
		taken[slot] = true
		items = append(items, candidate)
	}
	return items
}

func (r *Recommender) scorerAttempt(ctx context.Context, p *pool) (Recommendation, error) {
	items, tips := SelectOutfit(p.candidates, p.request.Product, p.required, p.request.Occasion, r.lists)
	if len(items) == 0 {
		return Recommendation{}, errNoCandidates
	}
	return Recommendation{Items: items, StyleTips: tips, Explanation: scorerMessage}, nil
}

func (r *Recommender) randomAttempt(ctx context.Context, p *pool) (Recommendation, error) {
	buckets := map[ProductType][]Garment{}
	for _, candidate := range p.candidates {
		slot := ProductTypeOf(candidate.Category, r.lists)
		buckets[slot] = append(buckets[slot], candidate)
	}
	items := []Garment{}
	r.mu.Lock()
	for _, slot := range p.required {
		bucket := buckets[slot]
		if len(bucket) == 0 {
			continue
		}
		items = append(items, bucket[r.rng.Intn(len(bucket))])
	}
	r.mu.Unlock()
	if len(items) == 0 {
		return Recommendation{}, errNoCandidates
	}
	return Recommendation{Items: items, StyleTips: []string{randomMessage}, Explanation: randomMessage}, nil
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			out = append(out, v)
		}
	}
	return out
}
