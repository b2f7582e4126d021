package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/procurement/internal/logger"
	"github.com/stwalsh4118/procurement/internal/mapper"
	"github.com/stwalsh4118/procurement/internal/models"
	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/stwalsh4118/procurement/internal/socrata"
)

// PurchaseOrderPage is one page of remote purchase orders. Pages are cut by
// row, so an order whose rows straddle a boundary appears on both pages.
type PurchaseOrderPage struct {
	Orders   []models.PurchaseOrder `json:"purchase_orders"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	HasMore  bool                   `json:"has_more"`
}

// PurchaseOrderService browses purchase orders on the open data portal and
// stores selected ones locally.
type PurchaseOrderService interface {
	// List returns page (1-based) of remote purchase orders.
	List(ctx context.Context, page int) (*PurchaseOrderPage, error)

	// Get fetches one order from the remote source. Returns ErrNotFound
	// when the source has no rows for number.
	Get(ctx context.Context, number string) (*models.PurchaseOrder, error)

	// Save fetches one order and stores it with its lines.
	Save(ctx context.Context, number string) (*models.PurchaseOrder, error)

	// GetStored reads a previously saved order.
	GetStored(ctx context.Context, number string) (*models.PurchaseOrder, error)
}

type purchaseOrderService struct {
	source   socrata.Source
	repo     repository.PurchaseOrderRepository
	pageSize int
	log      *logger.Logger
}

// NewPurchaseOrderService creates a new instance of PurchaseOrderService.
func NewPurchaseOrderService(source socrata.Source, repo repository.PurchaseOrderRepository, pageSize int, log *logger.Logger) PurchaseOrderService {
	return &purchaseOrderService{
		source:   source,
		repo:     repo,
		pageSize: pageSize,
		log:      log.WithComponent("purchase_orders"),
	}
}

func (s *purchaseOrderService) List(ctx context.Context, page int) (*PurchaseOrderPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1, got %d", ErrInvalidInput, page)
	}

	rows, err := s.source.FetchRows(ctx, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		s.log.Error("Failed to fetch purchase order page", err, map[string]interface{}{"page": page})
		return nil, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}

	return &PurchaseOrderPage{
		Orders:   mapper.PurchaseOrders(rows, mapper.OnSkip(s.logSkip)),
		Page:     page,
		PageSize: s.pageSize,
		HasMore:  len(rows) == s.pageSize,
	}, nil
}

func (s *purchaseOrderService) Get(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("%w: purchase order number is required", ErrInvalidInput)
	}

	rows, err := s.source.FetchPurchaseOrderRows(ctx, number)
	if err != nil {
		s.log.Error("Failed to fetch purchase order", err, map[string]interface{}{"purchase_order": number})
		return nil, fmt.Errorf("%w: %w", ErrRemoteFetch, err)
	}

	po := mapper.PurchaseOrder(rows, mapper.OnSkip(s.logSkip))
	if po == nil {
		return nil, ErrNotFound
	}
	return po, nil
}

func (s *purchaseOrderService) Save(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	po, err := s.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, po); err != nil {
		return nil, translateWriteError(err)
	}

	s.log.Info("Purchase order saved", map[string]interface{}{
		"purchase_order": po.Number,
		"lines":          len(po.Lines),
	})
	return po, nil
}

func (s *purchaseOrderService) GetStored(ctx context.Context, number string) (*models.PurchaseOrder, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("%w: purchase order number is required", ErrInvalidInput)
	}

	po, err := s.repo.FindByNumber(ctx, models.PurchaseOrderNumber(number))
	if err != nil {
		return nil, fmt.Errorf("failed to get stored purchase order: %w", err)
	}
	if po == nil {
		return nil, ErrNotFound
	}
	return po, nil
}

func (s *purchaseOrderService) logSkip(sk mapper.Skip) {
	s.log.Debug("Row dropped from purchase order", map[string]interface{}{
		"row":            sk.Index,
		"purchase_order": sk.PurchaseOrder,
		"reason":         sk.Reason,
	})
}
