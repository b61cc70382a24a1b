package repository

import (
	"context"

	"bikefit/domain"
)

type CalculationRepository interface {
	Save(ctx context.Context, rec domain.CalculationRecord) error
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
}
