package activity

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	StockNumber  string
	ActivityType *ActivityType
	BatchID      string
	Limit        int
	Offset       int
}
