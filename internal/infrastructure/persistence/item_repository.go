package persistence

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/nantech/inventory/internal/domain/shared"
	"github.com/nantech/inventory/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const itemViewColumns = "items.id, items.name, items.category_id, items.stock, items.supplier_id, " +
	"categories.name AS category_name, suppliers.name AS supplier_name"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("items").
		Select(itemViewColumns).
		Joins("JOIN categories ON categories.id = items.category_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = items.supplier_id")
}

// Create inserts the item and returns the generated id
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) (int64, error) {
	var m models.ItemModel
	m.FromDomain(item)
	m.ID = 0

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, translateItemWriteError(err)
	}
	item.ID = m.ID
	return m.ID, nil
}

// FindByID returns the joined view of one item
func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*catalog.ItemView, error) {
	var rows []models.ItemViewRow
	if err := r.views(ctx).Where("items.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError("Item")
	}
	view := rows[0].ToDomain()
	return &view, nil
}

// FindAll returns the joined views matching filter, ordered by name
func (r *GormItemRepository) FindAll(ctx context.Context, filter catalog.ItemFilter) ([]catalog.ItemView, error) {
	query := r.views(ctx)
	if filter.CategoryID != nil {
		query = query.Where("items.category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		query = query.Where("items.supplier_id = ?", *filter.SupplierID)
	}
	return r.scan(query)
}

// idChunkSize bounds the IN list of a single FindByIDs query
const idChunkSize = 500

// FindByIDs returns the joined views of the given ids, ordered by name then id.
// Unknown ids are skipped.
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.ItemView, error) {
	if len(ids) <= idChunkSize {
		if len(ids) == 0 {
			return []catalog.ItemView{}, nil
		}
		return r.scan(r.views(ctx).Where("items.id IN ?", ids))
	}

	views := make([]catalog.ItemView, 0, len(ids))
	for chunk := range slices.Chunk(ids, idChunkSize) {
		part, err := r.scan(r.views(ctx).Where("items.id IN ?", chunk))
		if err != nil {
			return nil, err
		}
		views = append(views, part...)
	}
	slices.SortFunc(views, func(a, b catalog.ItemView) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return views, nil
}

// Search returns the joined views whose name contains term, case-insensitively
func (r *GormItemRepository) Search(ctx context.Context, term string) ([]catalog.ItemView, error) {
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return r.scan(r.views(ctx).Where(`LOWER(items.name) LIKE LOWER(?) ESCAPE '\'`, pattern))
}

func (r *GormItemRepository) scan(query *gorm.DB) ([]catalog.ItemView, error) {
	var rows []models.ItemViewRow
	if err := query.Order("items.name ASC").Order("items.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]catalog.ItemView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].ToDomain())
	}
	return views, nil
}

// Update overwrites every writable column of an existing item
func (r *GormItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":        item.Name,
			"category_id": item.CategoryID,
			"stock":       item.Stock,
			"supplier_id": item.SupplierID,
		})
	if result.Error != nil {
		return translateItemWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("Item")
	}
	return nil
}

// Delete removes an item once no dependent row references it.
// The item row is locked for the duration of the checks so concurrent deletes
// serialize; the loser sees NotFound. RESTRICT foreign keys on the dependent
// tables reject inserts racing with the delete.
func (r *GormItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked models.ItemModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", id).
			Take(&locked).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError("Item")
			}
			return err
		}

		for _, table := range catalog.ItemDependentTables {
			var count int64
			if err := tx.Table(table).Where("item_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.NewReferentialConstraintError("item", table)
			}
		}

		result := tx.Where("id = ?", id).Delete(&models.ItemModel{})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
				return shared.NewReferentialConstraintError("item", "dependent records")
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Item")
		}
		return nil
	})
}

func translateItemWriteError(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return shared.NewValidationError("Category or supplier does not exist")
	}
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return shared.NewValidationError("Stock cannot be negative")
	}
	return err
}
