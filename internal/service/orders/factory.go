package orders

import (
	"context"

	"courier-dispatch/internal/domain"
)

type actionFunc func(context.Context, domain.Event) error

type actionFactory struct {
	byType map[domain.EventType]actionFunc
}

func newActionFactory(onReturned, onStatus, onCourier, onLocation actionFunc) *actionFactory {
	return &actionFactory{
		byType: map[domain.EventType]actionFunc{
			domain.EventOrderReturnedToPool:   onReturned,
			domain.EventOrderStatusChanged:    onStatus,
			domain.EventCourierStatusChanged:  onCourier,
			domain.EventCourierLocationUpdate: onLocation,
			// order.created и order.assigned уже обработаны синхронно при создании
		},
	}
}

func (f *actionFactory) get(t domain.EventType) (actionFunc, bool) {
	fn, ok := f.byType[t]
	return fn, ok && fn != nil
}
