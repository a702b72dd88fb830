package service

import (
	"context"
	"fmt"
	"strings"

	"procurement/internal/models"
)

func (s *Service) PurchaseOrders(ctx context.Context, q ListQuery) ([]models.PurchaseOrder, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.PurchaseOrders: %w", err)
	}

	orders, err := s.client.PurchaseOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.PurchaseOrders: %w", err)
	}
	orders, err = applyQuery(orders, q, models.PurchaseOrderSearchFields)
	if err != nil {
		return nil, fmt.Errorf("service.Service.PurchaseOrders: %w", err)
	}
	return orders, nil
}

func (s *Service) PurchaseOrder(ctx context.Context, id models.ID) (models.PurchaseOrder, error) {
	if id.Empty() {
		return models.PurchaseOrder{}, validationErr("purchase order id is required")
	}
	if err := s.requireSession(ctx); err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.PurchaseOrder: %w", err)
	}

	po, err := s.client.PurchaseOrder(ctx, id)
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.PurchaseOrder: %w", err)
	}
	return po, nil
}

// PurchaseOrderStatuses returns the status history, narrowed to one order when id is set.
func (s *Service) PurchaseOrderStatuses(ctx context.Context, id models.ID) ([]models.PurchaseOrderStatus, error) {
	if err := s.requireSession(ctx); err != nil {
		return nil, fmt.Errorf("service.Service.PurchaseOrderStatuses: %w", err)
	}

	all, err := s.client.PurchaseOrderStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Service.PurchaseOrderStatuses: %w", err)
	}
	if id.Empty() {
		return all, nil
	}

	history := make([]models.PurchaseOrderStatus, 0)
	for _, st := range all {
		if st.PurchaseOrderId == id {
			history = append(history, st)
		}
	}
	return history, nil
}

// SetPurchaseOrderStatus records a new status when the order's current status allows it
// and returns the order as the server stores it afterwards.
func (s *Service) SetPurchaseOrderStatus(ctx context.Context, id models.ID, status models.POStatus, remarks string) (models.PurchaseOrder, error) {
	if id.Empty() {
		return models.PurchaseOrder{}, validationErr("purchase order id is required")
	}
	if !models.ValidPOStatus(status) {
		return models.PurchaseOrder{}, validationErr("unknown purchase order status: %d", status)
	}
	if err := s.requireSession(ctx); err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.SetPurchaseOrderStatus: %w", err)
	}

	po, err := s.client.PurchaseOrder(ctx, id)
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.SetPurchaseOrderStatus: %w", err)
	}
	if !models.POTransitionAllowed(po.Status, status) {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.SetPurchaseOrderStatus: %w: %s to %s",
			models.ErrTransition, po.Status, status)
	}

	err = s.client.SetPurchaseOrderStatus(ctx, models.PurchaseOrderStatus{
		PurchaseOrderId: id,
		Status:          status,
		Remarks:         strings.TrimSpace(remarks),
	})
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.SetPurchaseOrderStatus: %w", err)
	}
	s.log.Infof("purchase order %s moved from %s to %s", id, po.Status, status)

	po, err = s.client.PurchaseOrder(ctx, id)
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("service.Service.SetPurchaseOrderStatus: %w", err)
	}
	return po, nil
}
