package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/swiftserve/models"
)

func TestCustomize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "   ", "KITCHEN: STANDARD PREPARATION"},
		{"mild wins over hot", "mild, not too hot", "KITCHEN: SPICE: LOW"},
		{"extra hot", "make it extra hot", "KITCHEN: SPICE: EXTRA HIGH | ADD: EXTRA HOT"},
		{"spicy", "Spicy please", "KITCHEN: SPICE: HIGH"},
		{"medium spice", "medium spice level", "KITCHEN: SPICE: MEDIUM"},
		{"ingredients", "no onions, extra cheese, not spicy", "KITCHEN: SPICE: LOW | ADD: EXTRA CHEESE | REMOVE: ONIONS"},
		{"more and less", "more garlic less salt", "KITCHEN: INCREASE: GARLIC | REDUCE: SALT"},
		{"well done beats crispy", "well done and crispy", "KITCHEN: COOKING: WELL DONE"},
		{"grilled", "grilled please", "KITCHEN: METHOD: GRILLED"},
		{"large portion", "large portion", "KITCHEN: PORTION: LARGE"},
		{"double", "double serving", "KITCHEN: PORTION: DOUBLE"},
		{"piano is not a removal", "played piano onions", "KITCHEN: STANDARD PREPARATION - Special note: played piano onions"},
		{"special note keeps case", "Serve with Love", "KITCHEN: STANDARD PREPARATION - Special note: Serve with Love"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Customize(tc.text))
		})
	}
}

func TestCustomizeTruncatesSpecialNote(t *testing.T) {
	text := "Please arrange the plate beautifully for our anniversary dinner tonight"
	got := Customize(text)
	assert.Equal(t, "KITCHEN: STANDARD PREPARATION - Special note: "+text[:50], got)
}

func TestQuickCustomize(t *testing.T) {
	assert.Equal(t, StandardPreparation, QuickCustomize(""))
	assert.Equal(t, StandardPreparation, QuickCustomize("thank you"))
	assert.Equal(t, "KITCHEN: SPICE LEVEL: LOW.", QuickCustomize("less spicy"))
	assert.Equal(t, "KITCHEN: SPICE LEVEL: HIGH. ADD-ON: HOT (Extra).", QuickCustomize("extra hot"))
	assert.Equal(t, "KITCHEN: SPICE LEVEL: MEDIUM.", QuickCustomize("spicy"))
	assert.Equal(t, "KITCHEN: REMOVE: ONIONS. COOKING: SOFT. PORTION: SMALL.", QuickCustomize("without onions, tender, small"))
	assert.Equal(t, "KITCHEN: ADD-ON: CHEESE (Extra). COOKING: WELL DONE. PORTION: LARGE.", QuickCustomize("extra cheese crispy big"))
}

func first(int) int { return 0 }

func TestSuggestPairingRules(t *testing.T) {
	now := time.Date(2026, 10, 17, 13, 0, 0, 0, time.UTC)

	mainOnly := &models.Order{Items: []models.OrderItem{{Category: "Main Course", Quantity: 1}}}
	assert.Equal(t, DessertPrompt, Suggest(mainOnly, now, first))

	withDessert := &models.Order{Items: []models.OrderItem{
		{Category: "Main Course", Quantity: 1},
		{Category: "Desserts", Quantity: 1},
	}}
	assert.Equal(t, BeveragePrompt, Suggest(withDessert, now, first))
	assert.Equal(t, BeveragePrompt, QuickSuggest(withDessert, first))
}

func TestSuggestFromContext(t *testing.T) {
	placed := time.Date(2026, 10, 17, 19, 0, 0, 0, time.UTC)
	o := &models.Order{
		Items:     []models.OrderItem{{Category: "Appetizers", Quantity: 2}},
		Total:     1200,
		Timestamp: placed,
	}
	now := placed.Add(20 * time.Minute)

	a := Analyze(*o, now)
	assert.Equal(t, Analysis{Period: PeriodDinner, Party: PartyCouple, Value: ValueHigh, WaitMinutes: 20}, a)

	pool := a.Pool()
	assert.Contains(t, pool, "Offer wine pairing")
	assert.Contains(t, pool, "Apologize for wait time and offer complimentary appetizer")
	assert.Contains(t, pool, "Recommend dessert for sharing")
	assert.Contains(t, pool, "Thank for choosing premium options")
	assert.Equal(t, generalSuggestions[len(generalSuggestions)-1], pool[len(pool)-1])

	assert.Equal(t, "Suggest premium dishes", Suggest(o, now, first))
	last := func(n int) int { return n - 1 }
	assert.Equal(t, "Suggest takeaway for remaining food - reduce waste", Suggest(o, now, last))
}

func TestAnalyzeBuckets(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2026, 10, 17, hour, 0, 0, 0, time.UTC) }
	tests := []struct {
		hour     int
		quantity int
		total    int64
		want     Analysis
	}{
		{11, 1, 120, Analysis{Period: PeriodLunch, Party: PartyIndividual, Value: ValueLow}},
		{16, 4, 999, Analysis{Period: PeriodLunch, Party: PartyFamily, Value: ValueMedium}},
		{22, 5, 1000, Analysis{Period: PeriodDinner, Party: PartyGroup, Value: ValueHigh}},
		{23, 3, 300, Analysis{Period: PeriodLate, Party: PartyFamily, Value: ValueMedium}},
		{2, 2, 0, Analysis{Period: PeriodLate, Party: PartyCouple, Value: ValueLow}},
	}
	for _, tc := range tests {
		o := models.Order{Items: []models.OrderItem{{Quantity: tc.quantity}}, Total: tc.total, Timestamp: at(tc.hour)}
		assert.Equal(t, tc.want, Analyze(o, at(tc.hour)), "hour %d", tc.hour)
	}
}

func TestSuggestWithoutOrder(t *testing.T) {
	got := Suggest(nil, time.Now(), first)
	assert.Equal(t, generalSuggestions[0], got)
	assert.Equal(t, quickSuggestions[0], QuickSuggest(nil, first))
	assert.NotEmpty(t, Suggest(nil, time.Now(), nil))
}

func TestRecommend(t *testing.T) {
	menu := []models.MenuItem{
		{ID: "a", Available: true},
		{ID: "b", Available: true, AIRecommended: true},
		{ID: "c", Available: false, AIRecommended: true},
		{ID: "d", Available: true, AIRecommended: true},
	}
	assert.Equal(t, []string{"b", "d"}, Recommend(menu))

	plain := []models.MenuItem{{ID: "a", Available: true}, {ID: "b"}, {ID: "c", Available: true}, {ID: "d", Available: true}, {ID: "e", Available: true}}
	assert.Equal(t, []string{"a", "c", "d"}, Recommend(plain))

	assert.Equal(t, []string{}, Recommend(nil))
}

func TestCapabilities(t *testing.T) {
	f := Capabilities()
	require.Len(t, f.AIFeatures, 3)
	assert.Equal(t, "/api/ai/customize", f.AIFeatures[0].Endpoint)
	assert.Equal(t, []string{"English"}, f.SupportedLanguages)
}
