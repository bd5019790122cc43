package entity

// BillStatus is the wire value of a bill's review status
type BillStatus string

// Bill status constants
const (
	BillStatusPending   BillStatus = "pending"
	BillStatusValidated BillStatus = "accepted"
	BillStatusRejected  BillStatus = "refused"
)

var billStatusLabels = map[BillStatus]string{
	BillStatusPending:   "En attente",
	BillStatusValidated: "Validé",
	BillStatusRejected:  "Refusé",
}

// Label returns the French display label; unknown statuses are shown as is
func (s BillStatus) Label() string {
	if label, ok := billStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Expense type constants offered by the new bill form
const (
	ExpenseTypeTransports     = "Transports"
	ExpenseTypeRestaurants    = "Restaurants et bars"
	ExpenseTypeHotel          = "Hôtel et logement"
	ExpenseTypeServicesOnline = "Services en ligne"
	ExpenseTypeIT             = "IT et électronique"
	ExpenseTypeEquipment      = "Equipement et matériel"
	ExpenseTypeSupplies       = "Fournitures de bureau"
)

// ExpenseTypes lists expense types in the order the form displays them
var ExpenseTypes = []string{
	ExpenseTypeTransports,
	ExpenseTypeRestaurants,
	ExpenseTypeHotel,
	ExpenseTypeServicesOnline,
	ExpenseTypeIT,
	ExpenseTypeEquipment,
	ExpenseTypeSupplies,
}

// User type constants
const (
	UserTypeEmployee = "Employee"
	UserTypeAdmin    = "Admin"
)

// DefaultPct is applied when a draft carries no VAT percentage
const DefaultPct = 20
