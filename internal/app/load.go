package service

import (
	"context"
	"fmt"

	"github.com/okian/shortlist/internal/adapters/repository"
)

// Load reads the catalog and training sources and builds an Engine. A nil
// training source means no training boost.
func Load(ctx context.Context, cat repository.CatalogSource, train repository.TrainingSource, opts ...Option) (*Engine, error) {
	records, err := cat.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load engine: %w", err)
	}
	if train != nil {
		rows, err := train.LoadTraining(ctx)
		if err != nil {
			return nil, fmt.Errorf("load engine: %w", err)
		}
		opts = append([]Option{WithTrainingRows(rows)}, opts...)
	}
	return NewEngine(ctx, records, opts...)
}
