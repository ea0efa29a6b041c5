// Package kitchen arranges active orders into the columns of the kitchen
// display.
package kitchen

import (
	"sort"
	"time"

	"github.com/ray-remotestate/swiftserve/models"
)

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"

	warningAfter  = 20
	criticalAfter = 30
)

type Card struct {
	Order          models.Order `json:"order"`
	ElapsedMinutes int          `json:"elapsedMinutes"`
	EstimatedPrep  int          `json:"estimatedMinutes"`
	Urgency        Urgency      `json:"urgency"`
}

type Board struct {
	New       []Card `json:"new"`
	Preparing []Card `json:"preparing"`
	Ready     []Card `json:"ready"`
	// Tables with at least one active order, ignoring the table filter.
	Tables      []int     `json:"tables"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Count is the number of cards on the board.
func (b Board) Count() int {
	return len(b.New) + len(b.Preparing) + len(b.Ready)
}

func urgency(elapsed int) Urgency {
	switch {
	case elapsed > criticalAfter:
		return UrgencyCritical
	case elapsed > warningAfter:
		return UrgencyWarning
	}
	return UrgencyNormal
}

// Elapsed is the whole minutes since the order was placed.
func Elapsed(o models.Order, now time.Time) int {
	d := int(now.Sub(o.Timestamp) / time.Minute)
	if d < 0 {
		return 0
	}
	return d
}

// Build lays out the active orders, oldest first in each column. A table of
// 0 shows every table.
func Build(orders []models.Order, table int, now time.Time) Board {
	board := Board{
		New:         []Card{},
		Preparing:   []Card{},
		Ready:       []Card{},
		Tables:      []int{},
		GeneratedAt: now,
	}

	active := make([]models.Order, 0, len(orders))
	seen := make(map[int]bool)
	for _, o := range orders {
		if !o.Status.IsActive() {
			continue
		}
		active = append(active, o)
		if !seen[o.TableNumber] {
			seen[o.TableNumber] = true
			board.Tables = append(board.Tables, o.TableNumber)
		}
	}
	sort.Ints(board.Tables)
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Timestamp.Before(active[j].Timestamp)
	})

	for _, o := range active {
		if table != 0 && o.TableNumber != table {
			continue
		}
		elapsed := Elapsed(o, now)
		card := Card{
			Order:          o,
			ElapsedMinutes: elapsed,
			EstimatedPrep:  o.PreparationMinutes(),
			Urgency:        urgency(elapsed),
		}
		switch o.Status {
		case models.OrderStatusNew:
			board.New = append(board.New, card)
		case models.OrderStatusPreparing:
			board.Preparing = append(board.Preparing, card)
		case models.OrderStatusReady:
			board.Ready = append(board.Ready, card)
		}
	}
	return board
}
