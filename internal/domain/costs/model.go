package costs

import "time"

// LineItem is one row in a category ledger. Which fields are meaningful
// depends on the category's Shape; Total always holds the monetary value
// (sub_total for labor).
type LineItem struct {
	ID        int64
	ProjectID int64
	Category  Category

	Worker      string  // labor
	WorkerCount float64 // labor
	Price       float64 // labor: daily price per worker

	Description string
	Average     float64 // average-shape ledgers (local, vigilancia, ...)
	Quantity    float64
	Unit        string // materiales only
	UnitPrice   float64
	DaysWorked  float64

	Total     float64
	CreatedAt time.Time
}

// DateAmount is one calendar day's summed spend for a category.
type DateAmount struct {
	Date   time.Time
	Amount float64
}

// CategoryTotal pairs a category with its project-wide total.
type CategoryTotal struct {
	Category Category
	Total    float64
}

// Breakdown holds per-category totals in contract order, split by group.
type Breakdown struct {
	Fixed    []CategoryTotal
	Variable []CategoryTotal
}

// GroupTotal sums one side of the breakdown.
func (b Breakdown) GroupTotal(g Group) float64 {
	var items []CategoryTotal
	if g == GroupFixed {
		items = b.Fixed
	} else {
		items = b.Variable
	}
	var sum float64
	for _, it := range items {
		sum += it.Total
	}
	return sum
}
