package entity

import (
	"sort"
	"strconv"
)

// Bill represents an employee expense report as stored by the bills store
type Bill struct {
	ID           string     `json:"id,omitempty"`
	Email        string     `json:"email,omitempty"`
	Type         string     `json:"type"`
	Name         string     `json:"name"`
	Date         string     `json:"date"` // YYYY-MM-DD
	Amount       float64    `json:"amount"`
	VAT          string     `json:"vat,omitempty"`
	Pct          int        `json:"pct,omitempty"`
	Commentary   string     `json:"commentary,omitempty"`
	Status       BillStatus `json:"status"`
	FileURL      string     `json:"fileUrl"`
	FileName     string     `json:"fileName,omitempty"`
	CommentAdmin string     `json:"commentAdmin,omitempty"`
}

// FormattedAmount renders the amount the way the bills table shows it ("100 €")
func (b Bill) FormattedAmount() string {
	return strconv.FormatFloat(b.Amount, 'f', -1, 64) + " €"
}

// SortByDateDesc returns a copy of bills ordered most recent first.
//
// Dates are compared as strings, which only matches calendar order for
// zero-padded YYYY-MM-DD values. Other formats will be misordered.
// Bills sharing a date keep their input order. The input slice is not modified.
func SortByDateDesc(bills []Bill) []Bill {
	sorted := make([]Bill, len(bills))
	copy(sorted, bills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}

// UploadResult is returned by the store once a receipt has been uploaded
type UploadResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}
