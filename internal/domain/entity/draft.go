package entity

// ReceiptFile is the receipt attached to a draft
type ReceiptFile struct {
	Name    string
	Content []byte
}

// NewBillDraft holds the fields collected by the new bill form for one submission
type NewBillDraft struct {
	Type       string
	Name       string
	Date       string
	Amount     float64
	VAT        string
	Pct        int
	Commentary string
	File       ReceiptFile

	// Set once the receipt upload succeeded
	FileURL string
	Key     string
}

// ToBill builds the record persisted after the receipt upload
func (d *NewBillDraft) ToBill(email string) Bill {
	pct := d.Pct
	if pct == 0 {
		pct = DefaultPct
	}
	return Bill{
		ID:         d.Key,
		Email:      email,
		Type:       d.Type,
		Name:       d.Name,
		Date:       d.Date,
		Amount:     d.Amount,
		VAT:        d.VAT,
		Pct:        pct,
		Commentary: d.Commentary,
		Status:     BillStatusPending,
		FileURL:    d.FileURL,
		FileName:   d.File.Name,
	}
}
