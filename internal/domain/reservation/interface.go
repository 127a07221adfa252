package reservation

import "context"

// Usecase is the interface for the reservation coordinator.
//
//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock
type Usecase interface {
	// Reserve returns a Result for every business outcome and an error only for
	// infrastructure failures.
	Reserve(ctx context.Context, req Request) (*Result, error)
}
