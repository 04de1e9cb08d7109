package stylist

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCatalog struct {
	products []Garment
	err      error
	calls    int
}

func (c *memoryCatalog) Candidates(ctx context.Context, categories []string, excludeID uint, limit int) ([]Garment, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	allowed := map[string]bool{}
	for _, category := range categories {
		allowed[category] = true
	}
	out := []Garment{}
	for _, p := range c.products {
		if p.ID == excludeID || !allowed[p.Category] {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type stubOracle struct {
	available bool
	selection *OracleSelection
	err       error
	delay     time.Duration
	seen      []OracleRequest
}

func (o *stubOracle) Available() bool { return o.available }

func (o *stubOracle) SelectOutfit(ctx context.Context, req OracleRequest) (*OracleSelection, error) {
	o.seen = append(o.seen, req)
	if o.delay > 0 {
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return o.selection, o.err
}

func officeCatalog() *memoryCatalog {
	return &memoryCatalog{products: []Garment{
		navyShirt(),
		{ID: 10, Name: "Pleated Trousers", Category: "Formal Trousers", Colors: []string{"Beige"}, Price: 900},
		{ID: 11, Name: "Blue Jeans", Category: "Jeans", Colors: []string{"Blue"}, Price: 1100},
		{ID: 20, Name: "Oxford Shoes", Category: "Formal Shoes", Colors: []string{"Black"}, Price: 1500},
		{ID: 21, Name: "White Sneakers", Category: "Sneakers", Colors: []string{"White"}, Price: 2500},
		{ID: 30, Name: "Leather Belt", Category: "Belt", Colors: []string{"Brown"}, Price: 300},
		{ID: 40, Name: "Bomber", Category: "Jacket", Colors: []string{"Olive"}, Price: 3000},
	}}
}

func officeRequest() Request {
	return Request{Product: navyShirt(), Occasion: "Office", Gender: "Men"}
}

func TestRecommendRejectsMissingCategory(t *testing.T) {
	r := NewRecommender(officeCatalog(), nil, nil, rand.New(rand.NewSource(1)))
	_, err := r.Recommend(context.Background(), Request{Product: Garment{Name: "Mystery"}})
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestRecommendPropagatesCatalogErrors(t *testing.T) {
	catalog := &memoryCatalog{err: errors.New("connection refused")}
	r := NewRecommender(catalog, nil, nil, rand.New(rand.NewSource(1)))
	_, err := r.Recommend(context.Background(), officeRequest())
	assert.Error(t, err)
}

func TestRecommendEmptyPool(t *testing.T) {
	r := NewRecommender(&memoryCatalog{}, nil, nil, rand.New(rand.NewSource(1)))
	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Empty(t, rec.Items)
	assert.Equal(t, "empty", rec.Source)
	assert.Equal(t, EmptyPoolMessage, rec.Explanation)
}

func TestRecommendUsesPrimaryOracle(t *testing.T) {
	primary := &stubOracle{available: true, selection: &OracleSelection{
		SelectedIDs: IDList{"11", "21", "30"},
		StyleTips:   []string{"Go smart casual.", " "},
	}}
	secondary := &stubOracle{available: true}
	r := NewRecommender(officeCatalog(), primary, secondary, rand.New(rand.NewSource(1)))

	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Equal(t, "primary_oracle", rec.Source)
	require.Len(t, rec.Items, 3)
	assert.Equal(t, uint(11), rec.Items[0].ID)
	assert.Equal(t, []string{"Go smart casual."}, rec.StyleTips)
	assert.Empty(t, secondary.seen)

	require.Len(t, primary.seen, 1)
	assert.Equal(t, []ProductType{TypeBottom, TypeFootwear, TypeAccessory}, primary.seen[0].Slots)
	for _, candidate := range primary.seen[0].Candidates {
		assert.NotEqual(t, uint(1), candidate.ID, "main product must not be offered")
		assert.NotEqual(t, "Jacket", candidate.Category, "outerwear is not a required slot")
	}
}

func TestRecommendDropsUnknownAndDuplicateSlotIDs(t *testing.T) {
	primary := &stubOracle{available: true, selection: &OracleSelection{
		SelectedIDs: IDList{"999", "10", "11", "20", "20"},
	}}
	r := NewRecommender(officeCatalog(), primary, nil, rand.New(rand.NewSource(1)))

	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Equal(t, "primary_oracle", rec.Source)
	require.Len(t, rec.Items, 2)
	assert.Equal(t, uint(10), rec.Items[0].ID)
	assert.Equal(t, uint(20), rec.Items[1].ID)
}

func TestRecommendFallsThroughToSecondary(t *testing.T) {
	primary := &stubOracle{available: true, err: errors.New("quota exceeded")}
	secondary := &stubOracle{available: true, selection: &OracleSelection{SelectedIDs: IDList{"10", "20"}}}
	r := NewRecommender(officeCatalog(), primary, secondary, rand.New(rand.NewSource(1)))

	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Equal(t, "secondary_oracle", rec.Source)
	assert.Len(t, rec.Items, 2)
}

func TestRecommendSecondaryGetsCappedPool(t *testing.T) {
	catalog := &memoryCatalog{}
	for i := 1; i <= 60; i++ {
		catalog.products = append(catalog.products, Garment{ID: uint(100 + i), Name: "Chinos", Category: "Chinos", Colors: []string{"Beige"}, Price: 1000})
	}
	secondary := &stubOracle{available: true, err: errors.New("bad gateway")}
	r := NewRecommender(catalog, nil, secondary, rand.New(rand.NewSource(1)))

	_, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	require.Len(t, secondary.seen, 1)
	assert.Len(t, secondary.seen[0].Candidates, SecondaryCandidateCap)
}

func TestRecommendMalformedOraclesFallToScorer(t *testing.T) {
	primary := &stubOracle{available: true, selection: &OracleSelection{SelectedIDs: IDList{"10"}}}
	secondary := &stubOracle{available: true, selection: nil}
	r := NewRecommender(officeCatalog(), primary, secondary, rand.New(rand.NewSource(1)))

	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Equal(t, "scorer", rec.Source)
	require.Len(t, rec.Items, 3)
	assert.Equal(t, []uint{10, 20, 30}, []uint{rec.Items[0].ID, rec.Items[1].ID, rec.Items[2].ID})
	assert.Len(t, primary.seen, 1)
	assert.Len(t, secondary.seen, 1)
}

func TestRecommendUnknownIDsDoNotOpenOracleBreaker(t *testing.T) {
	primary := &stubOracle{available: true, selection: &OracleSelection{SelectedIDs: IDList{"999"}}}
	r := NewRecommender(officeCatalog(), primary, nil, rand.New(rand.NewSource(1)))

	for i := 0; i < 5; i++ {
		rec, err := r.Recommend(context.Background(), officeRequest())
		require.NoError(t, err)
		assert.Equal(t, "scorer", rec.Source)
	}

	primary.selection = &OracleSelection{SelectedIDs: IDList{"10", "20"}}
	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Equal(t, "primary_oracle", rec.Source)
	assert.Len(t, rec.Items, 2)
	assert.Len(t, primary.seen, 6)
}

func TestRecommendUnavailableOraclesAreSkipped(t *testing.T) {
	primary := &stubOracle{available: false}
	r := NewRecommender(officeCatalog(), primary, nil, rand.New(rand.NewSource(1)))

	rec, err := r.Recommend(context.Background(), officeRequest())
	require.NoError(t, err)
	assert.Equal(t, "scorer", rec.Source)
	assert.Empty(t, primary.seen)
}

func TestRecommendCancelledContextStillAnswers(t *testing.T) {
	primary := &stubOracle{available: true, delay: time.Second, selection: &OracleSelection{SelectedIDs: IDList{"10", "20"}}}
	r := NewRecommender(officeCatalog(), primary, nil, rand.New(rand.NewSource(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	rec, err := r.Recommend(ctx, officeRequest())
	require.NoError(t, err)
	assert.NotEqual(t, "primary_oracle", rec.Source)
}

func TestRecommendFullBodyWithoutMatchingSlots(t *testing.T) {
	catalog := &memoryCatalog{products: []Garment{
		{ID: 2, Name: "Kurta", Category: "Kurta", Colors: []string{"Maroon"}, Price: 2000},
		{ID: 3, Name: "Trousers", Category: "Formal Trousers", Colors: []string{"Navy"}, Price: 2000},
	}}
	r := NewRecommender(catalog, nil, nil, rand.New(rand.NewSource(1)))

	rec, err := r.Recommend(context.Background(), Request{
		Product:  Garment{ID: 1, Name: "Ivory Sherwani", Category: "Sherwani", Colors: []string{"Cream"}, Price: 9000},
		Occasion: "wedding",
	})
	require.NoError(t, err)
	assert.Empty(t, rec.Items)
}

func TestRandomTierIsSeedable(t *testing.T) {
	p := &pool{
		request:    officeRequest(),
		required:   []ProductType{TypeBottom, TypeFootwear},
		candidates: officeCatalog().products,
	}
	pick := func(seed int64) []uint {
		r := NewRecommender(&memoryCatalog{}, nil, nil, rand.New(rand.NewSource(seed)))
		rec, err := r.randomAttempt(context.Background(), p)
		require.NoError(t, err)
		ids := []uint{}
		for _, item := range rec.Items {
			ids = append(ids, item.ID)
		}
		return ids
	}
	first := pick(99)
	assert.Len(t, first, 2)
	assert.Equal(t, first, pick(99))
}

func TestRandomTierOnePerSlot(t *testing.T) {
	r := NewRecommender(&memoryCatalog{}, nil, nil, nil)
	p := &pool{
		request:    officeRequest(),
		required:   []ProductType{TypeBottom, TypeFootwear, TypeAccessory},
		candidates: officeCatalog().products,
	}
	for i := 0; i < 20; i++ {
		rec, err := r.randomAttempt(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, rec.Items, 3)
		assert.Equal(t, TypeBottom, ProductTypeOf(rec.Items[0].Category, DefaultTypeLists))
		assert.Equal(t, TypeFootwear, ProductTypeOf(rec.Items[1].Category, DefaultTypeLists))
		assert.Equal(t, TypeAccessory, ProductTypeOf(rec.Items[2].Category, DefaultTypeLists))
	}
}
