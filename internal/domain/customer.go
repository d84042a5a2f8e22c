package domain

// Customer is the processor-owned customer record. Only the fields the
// funnel needs are carried; the processor remains the source of truth.
type Customer struct {
	ID    string
	Email string
	Name  string
	Phone string
}
