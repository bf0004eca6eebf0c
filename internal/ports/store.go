package ports

import "github.com/bigsaw04/mercury/internal/domain"

// WorkOrderStore loads and rewrites the single persisted work order.
type WorkOrderStore interface {
	// Load reads and validates the current record. After the first load,
	// a coin or fiat mismatch is corruption and fails.
	Load() (domain.WorkOrder, error)

	// Save rewrites the record in place. The previous record's bytes must
	// never resurface as trailing content after a shorter rewrite.
	Save(order domain.WorkOrder) error
}
