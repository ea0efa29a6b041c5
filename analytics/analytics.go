// Package analytics rolls orders up into the figures shown on the owner
// dashboard.
package analytics

import (
	"sort"
	"time"

	"github.com/ray-remotestate/swiftserve/models"
)

type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeAll   Range = "all"

	dayLayout       = "2006-01-02"
	revenueDays     = 7
	popularItemsTop = 5
	otherCategory   = "Other"
)

// ParseRange accepts the range names and defaults an empty string to week.
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case "":
		return RangeWeek, nil
	case RangeToday, RangeWeek, RangeMonth, RangeAll:
		return r, nil
	}
	return "", models.Invalid("range must be one of today, week, month, all")
}

// Since is the earliest instant included in the range, or the zero time for all.
func (r Range) Since(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case RangeToday:
		return midnight
	case RangeWeek:
		return midnight.AddDate(0, 0, -6)
	case RangeMonth:
		return midnight.AddDate(0, 0, -29)
	}
	return time.Time{}
}

type DayRevenue struct {
	Day     string `json:"day"`
	Revenue int64  `json:"revenue"`
}

type ItemSales struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

type CategoryRevenue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type Summary struct {
	Range           Range                      `json:"range"`
	TotalRevenue    int64                      `json:"totalRevenue"`
	TotalOrders     int                        `json:"totalOrders"`
	CompletedOrders int                        `json:"completedOrders"`
	AvgOrderValue   int64                      `json:"avgOrderValue"`
	RevenueByDay    []DayRevenue               `json:"revenueByDay"`
	PopularItems    []ItemSales                `json:"popularItems"`
	CategoryRevenue []CategoryRevenue          `json:"categoryRevenue"`
	PeakHour        int                        `json:"peakHour"`
	StatusCounts    map[models.OrderStatus]int `json:"statusCounts"`
}

// Summarize computes the dashboard figures over the orders placed within r.
// Days and hours are taken in now's location.
func Summarize(orders []models.Order, r Range, now time.Time) Summary {
	since := r.Since(now)
	loc := now.Location()

	s := Summary{
		Range:           r,
		RevenueByDay:    []DayRevenue{},
		PopularItems:    []ItemSales{},
		CategoryRevenue: []CategoryRevenue{},
		StatusCounts:    make(map[models.OrderStatus]int),
	}

	byDay := make(map[string]int64)
	items := make(map[string]*ItemSales)
	categories := make(map[string]int64)
	var hours [24]int

	for _, o := range orders {
		if o.Timestamp.Before(since) {
			continue
		}
		placed := o.Timestamp.In(loc)

		s.TotalOrders++
		s.TotalRevenue += o.Total
		s.StatusCounts[o.Status]++
		if o.Status == models.OrderStatusCompleted {
			s.CompletedOrders++
		}
		byDay[placed.Format(dayLayout)] += o.Total
		hours[placed.Hour()]++

		for _, item := range o.Items {
			sales, ok := items[item.Name]
			if !ok {
				sales = &ItemSales{Name: item.Name}
				items[item.Name] = sales
			}
			sales.Count += item.Quantity
			sales.Revenue += item.LineTotal()

			category := item.Category
			if category == "" {
				category = otherCategory
			}
			categories[category] += item.LineTotal()
		}
	}

	if s.CompletedOrders > 0 {
		s.AvgOrderValue = models.RoundHalfAway(float64(s.TotalRevenue) / float64(s.CompletedOrders))
	}

	for day, revenue := range byDay {
		s.RevenueByDay = append(s.RevenueByDay, DayRevenue{Day: day, Revenue: revenue})
	}
	sort.Slice(s.RevenueByDay, func(i, j int) bool { return s.RevenueByDay[i].Day < s.RevenueByDay[j].Day })
	if len(s.RevenueByDay) > revenueDays {
		s.RevenueByDay = s.RevenueByDay[len(s.RevenueByDay)-revenueDays:]
	}

	for _, sales := range items {
		s.PopularItems = append(s.PopularItems, *sales)
	}
	sort.Slice(s.PopularItems, func(i, j int) bool {
		a, b := s.PopularItems[i], s.PopularItems[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(s.PopularItems) > popularItemsTop {
		s.PopularItems = s.PopularItems[:popularItemsTop]
	}

	for name, value := range categories {
		s.CategoryRevenue = append(s.CategoryRevenue, CategoryRevenue{Name: name, Value: value})
	}
	sort.Slice(s.CategoryRevenue, func(i, j int) bool {
		a, b := s.CategoryRevenue[i], s.CategoryRevenue[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Name < b.Name
	})

	for hour, count := range hours {
		if count > hours[s.PeakHour] {
			s.PeakHour = hour
		}
	}
	return s
}
