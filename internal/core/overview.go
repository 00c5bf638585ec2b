package core

// CategoryAmount pairs a grouping key with a running total.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Overview aggregates totals over a set of records.
type Overview struct {
	Total      Money
	ByCategory []CategoryAmount
	ByUser     []CategoryAmount
}

// Summarize computes the grand total plus per-category and per-user
// breakdowns. Groups appear in first-seen order.
func Summarize(records []Record) Overview {
	var o Overview
	catIdx := map[string]int{}
	userIdx := map[string]int{}
	for _, r := range records {
		o.Total = o.Total.Add(r.Amount)

		cat := r.Category.String()
		if i, ok := catIdx[cat]; ok {
			o.ByCategory[i].Amount = o.ByCategory[i].Amount.Add(r.Amount)
		} else {
			catIdx[cat] = len(o.ByCategory)
			o.ByCategory = append(o.ByCategory, CategoryAmount{Name: cat, Amount: r.Amount})
		}

		if i, ok := userIdx[r.User]; ok {
			o.ByUser[i].Amount = o.ByUser[i].Amount.Add(r.Amount)
		} else {
			userIdx[r.User] = len(o.ByUser)
			o.ByUser = append(o.ByUser, CategoryAmount{Name: r.User, Amount: r.Amount})
		}
	}
	return o
}
