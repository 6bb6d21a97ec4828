package ingest

import (
	"context"
	"fmt"

	"insights-service/internal/model"
	"insights-service/internal/shopify"
	"insights-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityError records one entity type's sync failure with a human-readable
// cause.
type EntityError struct {
	Entity string `json:"entity"`
	Error  string `json:"error"`
}

// Result is the consolidated outcome of one tenant sync: per-entity synced
// counts plus the per-entity errors that did not stop the other entity
// types.
type Result struct {
	Products  int           `json:"products"`
	Customers int           `json:"customers"`
	Orders    int           `json:"orders"`
	Errors    []EntityError `json:"errors"`
}

// HasErrors reports whether any entity type failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Total returns the number of records synced across all entity types.
func (r *Result) Total() int {
	return r.Products + r.Customers + r.Orders
}

// ClientFactory builds a Shopify client for one tenant's credentials.
// Tests point it at a fake upstream.
type ClientFactory func(tenant *model.Tenant) *shopify.Client

// ErrUnknownEntity is returned by Sync for an unrecognized entity selector.
var ErrUnknownEntity = fmt.Errorf("unknown entity type")

// Service synchronizes external store data for one tenant at a time:
// fetch all pages of an entity type, reconcile each record, then move to
// the next entity type. Dependencies are explicit; there is no global
// state in the ingestion path. No retry happens within one invocation —
// the scheduler's next run is the retry mechanism.
type Service struct {
	reconciler *Reconciler
	clients    ClientFactory
	pageSize   int
	log        *zap.Logger
}

// NewService creates the sync orchestrator.
func NewService(db *gorm.DB, clients ClientFactory, pageSize int, log *zap.Logger) *Service {
	return &Service{
		reconciler: NewReconciler(db),
		clients:    clients,
		pageSize:   pageSize,
		log:        log,
	}
}

// SyncProducts fetches and reconciles every product for the tenant. A
// record that fails to reconcile is skipped and counted, not fatal.
func (s *Service) SyncProducts(ctx context.Context, tenant *model.Tenant) (int, error) {
	s.log.Info("Fetching products", zap.String("shop_url", tenant.ShopURL))

	products, err := s.clients(tenant).FetchProducts(ctx, s.pageSize)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, p := range products {
		if err := s.reconciler.UpsertProduct(ctx, tenant.ID, p); err != nil {
			s.log.Warn("Skipping product that failed to reconcile",
				zap.String("shop_url", tenant.ShopURL),
				zap.Int64("product_id", p.ID),
				zap.Error(err))
			prometheus.RecordSyncSkipped("products")
			continue
		}
		synced++
	}

	s.log.Info("Stored products",
		zap.String("shop_url", tenant.ShopURL),
		zap.Int("fetched", len(products)),
		zap.Int("synced", synced))
	prometheus.RecordSyncedRecords("products", synced)
	return synced, nil
}

// SyncCustomers fetches and reconciles every customer for the tenant.
func (s *Service) SyncCustomers(ctx context.Context, tenant *model.Tenant) (int, error) {
	s.log.Info("Fetching customers", zap.String("shop_url", tenant.ShopURL))

	customers, err := s.clients(tenant).FetchCustomers(ctx, s.pageSize)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, c := range customers {
		if err := s.reconciler.UpsertCustomer(ctx, tenant.ID, c); err != nil {
			s.log.Warn("Skipping customer that failed to reconcile",
				zap.String("shop_url", tenant.ShopURL),
				zap.Int64("customer_id", c.ID),
				zap.Error(err))
			prometheus.RecordSyncSkipped("customers")
			continue
		}
		synced++
	}

	s.log.Info("Stored customers",
		zap.String("shop_url", tenant.ShopURL),
		zap.Int("fetched", len(customers)),
		zap.Int("synced", synced))
	prometheus.RecordSyncedRecords("customers", synced)
	return synced, nil
}

// SyncOrders fetches and reconciles every order for the tenant.
func (s *Service) SyncOrders(ctx context.Context, tenant *model.Tenant) (int, error) {
	s.log.Info("Fetching orders", zap.String("shop_url", tenant.ShopURL))

	orders, err := s.clients(tenant).FetchOrders(ctx, s.pageSize)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, o := range orders {
		if err := s.reconciler.UpsertOrder(ctx, tenant.ID, o); err != nil {
			s.log.Warn("Skipping order that failed to reconcile",
				zap.String("shop_url", tenant.ShopURL),
				zap.Int64("order_id", o.ID),
				zap.Error(err))
			prometheus.RecordSyncSkipped("orders")
			continue
		}
		synced++
	}

	s.log.Info("Stored orders",
		zap.String("shop_url", tenant.ShopURL),
		zap.Int("fetched", len(orders)),
		zap.Int("synced", synced))
	prometheus.RecordSyncedRecords("orders", synced)
	return synced, nil
}

// SyncAll runs product, then customer, then order sync sequentially. Each
// step is isolated: one entity type's failure is recorded and the
// remaining types still run. The store grants scopes per credential, so a
// tenant may legitimately lack read access to one entity type; SyncAll
// maximizes what can be synced and surfaces the rest as warnings.
func (s *Service) SyncAll(ctx context.Context, tenant *model.Tenant) *Result {
	result := &Result{Errors: []EntityError{}}

	if count, err := s.SyncProducts(ctx, tenant); err != nil {
		s.recordFailure(tenant, result, "products", err)
	} else {
		result.Products = count
	}

	if count, err := s.SyncCustomers(ctx, tenant); err != nil {
		s.recordFailure(tenant, result, "customers", err)
	} else {
		result.Customers = count
	}

	if count, err := s.SyncOrders(ctx, tenant); err != nil {
		s.recordFailure(tenant, result, "orders", err)
	} else {
		result.Orders = count
	}

	return result
}

// Sync runs the sync for one entity selector: products, customers, orders,
// or all. Unknown selectors return ErrUnknownEntity before any sync starts.
func (s *Service) Sync(ctx context.Context, tenant *model.Tenant, entity string) (*Result, error) {
	switch entity {
	case "", "all":
		return s.SyncAll(ctx, tenant), nil
	case "products":
		result := &Result{Errors: []EntityError{}}
		if count, err := s.SyncProducts(ctx, tenant); err != nil {
			s.recordFailure(tenant, result, "products", err)
		} else {
			result.Products = count
		}
		return result, nil
	case "customers":
		result := &Result{Errors: []EntityError{}}
		if count, err := s.SyncCustomers(ctx, tenant); err != nil {
			s.recordFailure(tenant, result, "customers", err)
		} else {
			result.Customers = count
		}
		return result, nil
	case "orders":
		result := &Result{Errors: []EntityError{}}
		if count, err := s.SyncOrders(ctx, tenant); err != nil {
			s.recordFailure(tenant, result, "orders", err)
		} else {
			result.Orders = count
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
}

func (s *Service) recordFailure(tenant *model.Tenant, result *Result, entity string, err error) {
	s.log.Error("Entity sync failed",
		zap.String("shop_url", tenant.ShopURL),
		zap.String("entity", entity),
		zap.Error(err))
	prometheus.RecordSyncError(entity)
	result.Errors = append(result.Errors, EntityError{
		Entity: entity,
		Error:  scopeHint(entity, err),
	})
}

// scopeHint turns an upstream 401/403 into a message naming the missing
// read scope; other failures surface as-is.
func scopeHint(entity string, err error) string {
	if shopify.IsPermissionError(err) {
		return fmt.Sprintf("Permission denied - requires read_%s scope", entity)
	}
	return err.Error()
}
