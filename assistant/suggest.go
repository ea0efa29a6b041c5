package assistant

import (
	"math/rand/v2"
	"time"

	"github.com/ray-remotestate/swiftserve/models"
)

const (
	categoryMain      = "Main Course"
	categoryDesserts  = "Desserts"
	categoryBeverages = "Beverages"

	DessertPrompt  = "Suggest today's dessert special to complement the main course"
	BeveragePrompt = "Recommend a beverage pairing for the meal"
)

// Picker returns an index in [0, n).
type Picker func(n int) int

// RandomPick is the Picker used outside tests.
func RandomPick(n int) int {
	return rand.IntN(n)
}

var generalSuggestions = []string{
	"Suggest today's dessert special - popular with families",
	"Check if drinks are needed - been 10 minutes since last order",
	"Offer appetizer recommendations - kitchen has fresh ingredients",
	"Ask about spice preference - customer seems to enjoy milder flavors",
	"Suggest pairing beverages - perfect match for their main course",
	"Recommend sharing plates - great for groups",
	"Inquire about dietary restrictions - better safe than sorry",
	"Offer chef's special - limited time seasonal dish",
	"Check on meal satisfaction - ensure quality experience",
	"Suggest takeaway for remaining food - reduce waste",
}

var quickSuggestions = []string{
	"Suggest today's dessert special - popular with families",
	"Check if drinks are needed - been 10 minutes since last order",
	"Offer appetizer recommendations based on main course",
	"Ask about spice preference for next items",
	"Suggest pairing beverages with the meal",
	"Recommend chef's special for the day",
	"Check if additional condiments are needed",
	"Offer complimentary water refill",
}

var periodSuggestions = map[string][]string{
	PeriodLunch:  {"Suggest quick lunch combos", "Offer healthy salad options", "Recommend light beverages"},
	PeriodDinner: {"Suggest premium dishes", "Offer wine pairing", "Recommend dessert specials"},
	PeriodLate:   {"Offer light snacks", "Suggest herbal teas", "Quick service items available"},
}

var partySuggestions = map[string][]string{
	PartyFamily: {"Offer kid-friendly options or modifications", "Suggest sharing platters for the table", "Ask if high chairs or special seating needed"},
	PartyCouple: {"Suggest romantic ambiance adjustments", "Offer wine or beverage pairing", "Recommend dessert for sharing"},
	PartyGroup:  {"Suggest group meal deals or combos", "Offer separate billing options", "Recommend popular sharing dishes"},
}

var valueSuggestions = map[string][]string{
	ValueHigh: {"Thank for choosing premium options", "Offer chef's special recommendations", "Suggest wine pairing for premium dishes"},
	ValueLow:  {"Suggest value meal additions", "Offer combo deals to enhance value", "Mention daily specials and promotions"},
}

const (
	PeriodLunch  = "lunch"
	PeriodDinner = "dinner"
	PeriodLate   = "late"

	PartyIndividual = "individual"
	PartyCouple     = "couple"
	PartyFamily     = "family"
	PartyGroup      = "group"

	ValueLow    = "low"
	ValueMedium = "medium"
	ValueHigh   = "high"
)

// Analysis is what the suggestion rules know about an order.
type Analysis struct {
	Period      string
	Party       string
	Value       string
	WaitMinutes int
}

// Analyze derives the service context of an order placed at o.Timestamp as
// seen at now.
func Analyze(o models.Order, now time.Time) Analysis {
	a := Analysis{
		Period:      period(o.Timestamp.In(now.Location()).Hour()),
		Party:       party(o.ItemCount()),
		Value:       value(o.Total),
		WaitMinutes: int(now.Sub(o.Timestamp).Minutes()),
	}
	if a.WaitMinutes < 0 {
		a.WaitMinutes = 0
	}
	return a
}

func period(hour int) string {
	switch {
	case hour >= 11 && hour < 17:
		return PeriodLunch
	case hour >= 17 && hour < 23:
		return PeriodDinner
	default:
		return PeriodLate
	}
}

func party(quantity int) string {
	switch {
	case quantity <= 1:
		return PartyIndividual
	case quantity == 2:
		return PartyCouple
	case quantity <= 4:
		return PartyFamily
	default:
		return PartyGroup
	}
}

func value(total int64) string {
	switch {
	case total < 300:
		return ValueLow
	case total < 1000:
		return ValueMedium
	default:
		return ValueHigh
	}
}

// Pool lists every contextual prompt that applies to the analysis.
func (a Analysis) Pool() []string {
	var pool []string
	pool = append(pool, periodSuggestions[a.Period]...)
	switch {
	case a.WaitMinutes > 15:
		pool = append(pool,
			"Apologize for wait time and offer complimentary appetizer",
			"Check if customer needs anything while waiting")
	case a.WaitMinutes < 5:
		pool = append(pool, "Compliment on quick service and ask for feedback")
	}
	pool = append(pool, partySuggestions[a.Party]...)
	pool = append(pool, valueSuggestions[a.Value]...)
	return append(pool, generalSuggestions...)
}

// pairingPrompt returns the dessert or beverage prompt when the order has a
// main course without one, or "" otherwise.
func pairingPrompt(items []models.OrderItem) string {
	var main, dessert, beverage bool
	for _, item := range items {
		switch item.Category {
		case categoryMain:
			main = true
		case categoryDesserts:
			dessert = true
		case categoryBeverages:
			beverage = true
		}
	}
	switch {
	case main && !dessert:
		return DessertPrompt
	case main && !beverage:
		return BeveragePrompt
	}
	return ""
}

// Suggest picks a service prompt for staff attending the order. A nil order
// yields a general prompt.
func Suggest(o *models.Order, now time.Time, pick Picker) string {
	if pick == nil {
		pick = RandomPick
	}
	if o == nil {
		return generalSuggestions[pick(len(generalSuggestions))]
	}
	if prompt := pairingPrompt(o.Items); prompt != "" {
		return prompt
	}
	pool := Analyze(*o, now).Pool()
	return pool[pick(len(pool))]
}

// QuickSuggest is the offline variant: the pairing rules, then a short
// generic list.
func QuickSuggest(o *models.Order, pick Picker) string {
	if pick == nil {
		pick = RandomPick
	}
	if o != nil {
		if prompt := pairingPrompt(o.Items); prompt != "" {
			return prompt
		}
	}
	return quickSuggestions[pick(len(quickSuggestions))]
}
