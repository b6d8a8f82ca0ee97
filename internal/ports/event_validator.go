package ports

import (
	"context"

	"github.com/brunopultz/orderms/internal/domain"
)

type EventValidator interface {
	Validate(ctx context.Context, event *domain.OrderCreatedEvent) error
}
