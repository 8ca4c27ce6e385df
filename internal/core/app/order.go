// Package app holds the application services. OrderService is the
// lifecycle engine: it is the only writer of order rows and the only
// caller of stock reserve/release, and it keeps both consistent by running
// every mutation inside one unit of work.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
	"github.com/jcmexdev/backoffice-api/internal/orderlog"
)

// NewOrderLine is one requested (product, quantity) pair.
type NewOrderLine struct {
	ProductID int64
	Quantity  int
}

// UpdateOrderInput carries the optional fields of a PUT. Items is a
// pointer so "absent" and "empty list" stay distinct: an empty list is a
// valid replacement meaning "remove all items".
type UpdateOrderInput struct {
	ClientID *int64
	Status   *string
	Items    *[]NewOrderLine
}

// ListOrdersInput is the raw, uncapped query from the boundary.
type ListOrdersInput struct {
	Page      int
	Limit     int
	OrderID   *int64
	ClientID  *int64
	Status    string
	Section   string
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderService is the order lifecycle engine.
type OrderService struct {
	uow    ports.UnitOfWork
	events orderlog.Repository // nil-safe: audit trail skipped if nil
	pages  Pagination
}

// NewOrderService builds the engine. events may be nil, in which case
// lifecycle transitions are not persisted to the audit log.
func NewOrderService(uow ports.UnitOfWork, events orderlog.Repository, pages Pagination) *OrderService {
	return &OrderService{uow: uow, events: events, pages: pages}
}

// Create validates every requested line against the client and product
// state, reserves stock per line, and persists the order with its items,
// all in one transaction. Any failing line aborts the whole order with no
// stock mutation on any line.
func (s *OrderService) Create(ctx context.Context, clientID int64, lines []NewOrderLine) (*entity.Order, error) {
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	var created *entity.Order
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		if _, err := repos.Clients().Get(ctx, clientID); err != nil {
			return err
		}

		items, total, err := buildItems(ctx, repos.Products(), lines)
		if err != nil {
			return err
		}

		order := &entity.Order{
			ClientID:   clientID,
			Status:     entity.StatusPending,
			TotalValue: total,
			CreatedAt:  time.Now().UTC(),
			Items:      items,
		}
		if err := repos.Orders().Insert(ctx, order); err != nil {
			return err
		}
		for _, it := range items {
			if err := repos.Orders().InsertItem(ctx, order.ID, it); err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, created.ID, orderlog.EventCreated, string(created.Status),
		fmt.Sprintf("%d items, total %s", len(created.Items), created.TotalValue))
	return created, nil
}

// Get returns the materialized order or a NotFound fault.
func (s *OrderService) Get(ctx context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Orders().Get(ctx, id)
		return err
	})
	return out, err
}

// List applies the AND-composed filters with the server-side page clamp.
// The returned page/limit are the effective values after clamping.
func (s *OrderService) List(ctx context.Context, in ListOrdersInput) ([]*entity.Order, int, int, error) {
	page, limit, offset := s.pages.Clamp(in.Page, in.Limit)

	filter := ports.OrderFilter{
		OrderID:   in.OrderID,
		ClientID:  in.ClientID,
		Section:   in.Section,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Offset:    offset,
		Limit:     limit,
	}
	if in.Status != "" {
		status, ok := entity.ParseOrderStatus(in.Status)
		if !ok {
			return nil, 0, 0, fault.New(fault.KindValidation, "unknown order status %q", in.Status)
		}
		filter.Status = &status
	}

	var out []*entity.Order
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Orders().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return out, page, limit, nil
}

// Update applies a partial update. When Items is present the existing
// line set is replaced wholesale: every old line's stock is released,
// every new line validated and reserved against the post-release stock,
// and the total recomputed, all inside one transaction, so a failure on any
// new line leaves the old items and stock untouched.
//
// Status "cancelled" is not a plain field write; it delegates to Cancel
// and may not be combined with other fields.
func (s *OrderService) Update(ctx context.Context, id int64, in UpdateOrderInput) (*entity.Order, error) {
	var status *entity.OrderStatus
	if in.Status != nil {
		parsed, ok := entity.ParseOrderStatus(*in.Status)
		if !ok {
			return nil, fault.New(fault.KindValidation, "unknown order status %q", *in.Status)
		}
		if parsed == entity.StatusCancelled {
			if in.ClientID != nil || in.Items != nil {
				return nil, fault.New(fault.KindValidation,
					"cancellation cannot be combined with other changes")
			}
			return s.Cancel(ctx, id)
		}
		status = &parsed
	}
	if in.Items != nil {
		if err := validateLines(*in.Items); err != nil {
			return nil, err
		}
	}

	var updated *entity.Order
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		order, err := repos.Orders().Get(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == entity.StatusCancelled {
			return fault.New(fault.KindValidation, "order %d is cancelled and cannot be updated", id)
		}

		if in.ClientID != nil {
			if _, err := repos.Clients().Get(ctx, *in.ClientID); err != nil {
				return err
			}
			order.ClientID = *in.ClientID
		}
		if status != nil {
			order.Status = *status
		}

		if in.Items != nil {
			// Full stock rollback of the old item set first; the new lines
			// then validate against post-release stock. A net-identical
			// replacement leaves every stock count unchanged.
			for _, it := range order.Items {
				if err := repos.Products().Release(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			if err := repos.Orders().DeleteItems(ctx, id); err != nil {
				return err
			}

			items, total, err := buildItems(ctx, repos.Products(), *in.Items)
			if err != nil {
				return err
			}
			for _, it := range items {
				if err := repos.Orders().InsertItem(ctx, id, it); err != nil {
					return err
				}
			}
			order.Items = items
			order.TotalValue = total
		}

		if err := repos.Orders().Update(ctx, order); err != nil {
			return err
		}

		// Re-read so item detail reflects the persisted state.
		updated, err = repos.Orders().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, id, orderlog.EventUpdated, string(updated.Status),
		fmt.Sprintf("%d items, total %s", len(updated.Items), updated.TotalValue))
	return updated, nil
}

// Cancel releases the stock of every line exactly once and freezes the
// order in the cancelled state. Cancelling twice is rejected; that is
// what prevents a double stock restore.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*entity.Order, error) {
	var cancelled *entity.Order
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		order, err := repos.Orders().Get(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == entity.StatusCancelled {
			return fault.New(fault.KindValidation, "order %d is already cancelled", id)
		}

		for _, it := range order.Items {
			if err := repos.Products().Release(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		order.Status = entity.StatusCancelled
		if err := repos.Orders().Update(ctx, order); err != nil {
			return err
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, id, orderlog.EventCancelled, string(entity.StatusCancelled),
		fmt.Sprintf("released %d lines", len(cancelled.Items)))
	return cancelled, nil
}

// Delete removes the order and its items. Stock is released for every
// line unless the order was already cancelled (its stock was released at
// cancellation time).
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	var releasedLines int
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		order, err := repos.Orders().Get(ctx, id)
		if err != nil {
			return err
		}

		if order.Status != entity.StatusCancelled {
			for _, it := range order.Items {
				if err := repos.Products().Release(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			releasedLines = len(order.Items)
		}

		// Items go with the order (cascade).
		return repos.Orders().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logEvent(ctx, id, orderlog.EventDeleted, "",
		fmt.Sprintf("released %d lines", releasedLines))
	return nil
}

// Events returns the audit trail for an order. Empty when no audit log is
// configured.
func (s *OrderService) Events(ctx context.Context, id int64) ([]*orderlog.Entry, error) {
	if s.events == nil {
		return nil, nil
	}
	return s.events.ListByOrder(ctx, id)
}

// buildItems resolves and reserves every requested line against the
// transaction's product state. All lines are validated against a stock
// snapshot before any reservation; Reserve then re-checks atomically, so
// a concurrent order racing on the same product fails here and rolls the
// whole transaction back.
func buildItems(ctx context.Context, products ports.ProductRepository, lines []NewOrderLine) ([]entity.OrderItem, decimal.Decimal, error) {
	items := make([]entity.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		p, err := products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p.Stock < line.Quantity {
			return nil, decimal.Zero, fault.New(fault.KindInsufficientStock,
				"insufficient stock for product %q: available %d, requested %d",
				p.Description, p.Stock, line.Quantity)
		}
		items = append(items, entity.OrderItem{
			ProductID:   p.ID,
			Quantity:    line.Quantity,
			Price:       p.Price,
			Description: p.Description,
			Section:     p.Section,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	for i, line := range lines {
		if err := products.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			if fault.IsInsufficientStock(err) {
				// Lost a race since the snapshot check above; keep the
				// descriptive message contract.
				return nil, decimal.Zero, fault.New(fault.KindInsufficientStock,
					"insufficient stock for product %q", items[i].Description)
			}
			return nil, decimal.Zero, err
		}
	}

	return items, total, nil
}

func validateLines(lines []NewOrderLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return fault.New(fault.KindValidation,
				"quantity for product %d must be positive", line.ProductID)
		}
	}
	return nil
}

// logEvent appends to the audit trail. Failures are logged and swallowed:
// the business mutation already committed and must not be reported as
// failed because of the audit write.
func (s *OrderService) logEvent(ctx context.Context, orderID int64, event orderlog.Event, status, detail string) {
	if s.events == nil {
		return
	}
	entry := orderlog.NewEntry(ctx, orderID, event, status, detail)
	if err := s.events.Save(ctx, entry); err != nil {
		slog.WarnContext(ctx, "failed to record order event",
			"order_id", orderID, "event", string(event), "error", err)
	}
}
