package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/nantech/inventory/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Item mutation names reported to ItemMetrics
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// ItemMetrics receives item mutation outcomes
type ItemMetrics interface {
	RecordItemMutation(ctx context.Context, operation string)
	RecordDeleteBlocked(ctx context.Context, table string)
}

type noopItemMetrics struct{}

func (noopItemMetrics) RecordItemMutation(context.Context, string)  {}
func (noopItemMetrics) RecordDeleteBlocked(context.Context, string) {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

// ItemService handles item-related business operations.
//
// The item table is the source of truth. Events and the search index are
// updated after a mutation commits; their failures are logged and never
// undo or fail the mutation.
type ItemService struct {
	itemRepo  catalog.ItemRepository
	publisher shared.EventPublisher
	index     catalog.ItemIndex
	metrics   ItemMetrics
	logger    *zap.Logger
}

// NewItemService creates a new ItemService. publisher, index and metrics
// may be nil; a nil index routes searches to the repository.
func NewItemService(
	itemRepo catalog.ItemRepository,
	publisher shared.EventPublisher,
	index catalog.ItemIndex,
	metrics ItemMetrics,
	logger *zap.Logger,
) *ItemService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopItemMetrics{}
	}
	return &ItemService{
		itemRepo:  itemRepo,
		publisher: publisher,
		index:     index,
		metrics:   metrics,
		logger:    logger,
	}
}

// Create validates and stores a new item, returning its id
func (s *ItemService) Create(ctx context.Context, req ItemRequest) (*CreateItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "create")
	defer span.End()

	item, err := catalog.NewItem(req.toInput())
	if err != nil {
		return nil, err
	}

	id, err := s.itemRepo.Create(ctx, item)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	item.ID = id
	span.SetAttributes(attribute.Int64("item.id", id))

	s.metrics.RecordItemMutation(ctx, OperationCreate)
	s.publish(ctx, catalog.NewItemCreatedEvent(item))
	s.reindex(ctx, id)

	return &CreateItemResponse{ID: id}, nil
}

// Get returns one item with its category and supplier names
func (s *ItemService) Get(ctx context.Context, id int64) (*ItemResponse, error) {
	view, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(*view)
	return &resp, nil
}

// List returns items matching every provided criterion, ordered by name
func (s *ItemService) List(ctx context.Context, query ItemListQuery) ([]ItemResponse, error) {
	views, err := s.itemRepo.FindAll(ctx, query.filter())
	if err != nil {
		return nil, err
	}
	return ToItemResponses(views), nil
}

// Search returns items whose name contains the query term, ignoring case,
// narrowed by the optional category and supplier criteria.
// The search index is preferred; when it fails the repository answers.
func (s *ItemService) Search(ctx context.Context, query ItemSearchQuery) ([]ItemResponse, error) {
	term := strings.TrimSpace(query.Term)
	if term == "" {
		return nil, shared.NewValidationError("Search term is required")
	}

	views, err := s.searchViews(ctx, term)
	if err != nil {
		return nil, err
	}
	return ToItemResponses(catalog.Filter(views, query.filter())), nil
}

// searchViews matches term through the index when there is one. Index hits
// are loaded from the repository so results always reflect the table.
func (s *ItemService) searchViews(ctx context.Context, term string) ([]catalog.ItemView, error) {
	if s.index != nil {
		ids, err := s.index.Search(ctx, term)
		if err == nil {
			return s.itemRepo.FindByIDs(ctx, ids)
		}
		s.logger.Warn("Search index query failed, using database", zap.String("term", term), zap.Error(err))
	}
	return s.itemRepo.Search(ctx, term)
}

// SyncIndex reloads every item into the search index when the index document
// count differs from the item count, as after the index is first created.
// It returns the number of items written.
func (s *ItemService) SyncIndex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	indexed, err := s.index.Count(ctx)
	if err != nil {
		return 0, err
	}
	views, err := s.itemRepo.FindAll(ctx, catalog.ItemFilter{})
	if err != nil {
		return 0, err
	}
	if indexed == int64(len(views)) {
		return 0, nil
	}

	if err := s.index.IndexAll(ctx, views); err != nil {
		return 0, err
	}
	s.logger.Info("Search index synchronized",
		zap.Int64("indexed_before", indexed),
		zap.Int("items", len(views)))
	return len(views), nil
}

// Update replaces every writable field of an existing item.
// Input is validated before the item's existence is checked.
func (s *ItemService) Update(ctx context.Context, id int64, req ItemRequest) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "update", attribute.Int64("item.id", id))
	defer span.End()

	item := &catalog.Item{ID: id}
	if err := item.Replace(req.toInput()); err != nil {
		return err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.metrics.RecordItemMutation(ctx, OperationUpdate)
	s.publish(ctx, catalog.NewItemUpdatedEvent(item))
	s.reindex(ctx, id)
	return nil
}

// Delete removes an item that nothing references
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "delete", attribute.Int64("item.id", id))
	defer span.End()

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.CodeReferentialConstraint {
			s.metrics.RecordDeleteBlocked(ctx, domainErr.Details)
			s.logger.Info("Item deletion blocked",
				zap.Int64("item_id", id),
				zap.String("table", domainErr.Details))
		}
		telemetry.RecordError(span, err)
		return err
	}

	s.metrics.RecordItemMutation(ctx, OperationDelete)
	s.publish(ctx, catalog.NewItemDeletedEvent(id))
	if s.index != nil {
		if err := s.index.Remove(ctx, id); err != nil {
			s.logger.Warn("Failed to remove item from search index", zap.Int64("item_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *ItemService) publish(ctx context.Context, event *catalog.ItemEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish item event",
			zap.String("event_type", event.EventType()),
			zap.Int64("item_id", event.ItemID),
			zap.Error(err))
	}
}

func (s *ItemService) reindex(ctx context.Context, id int64) {
	if s.index == nil {
		return
	}
	view, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load item for indexing", zap.Int64("item_id", id), zap.Error(err))
		return
	}
	if err := s.index.Index(ctx, *view); err != nil {
		s.logger.Warn("Failed to index item", zap.Int64("item_id", id), zap.Error(err))
	}
}
