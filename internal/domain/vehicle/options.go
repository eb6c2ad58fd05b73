package vehicle

import "github.com/rpggio/recontrack/internal/domain/workflow"

// ListOptions provides filtering options for listing vehicles.
type ListOptions struct {
	Statuses    []workflow.Stage
	Detailer    string
	InReconOnly bool
	Limit       int
	Offset      int
}

// SearchOptions provides filtering options for search.
type SearchOptions struct {
	Statuses []workflow.Stage
	Limit    int
	Offset   int
}
