package repo

import (
	"errors"
	"strings"

	"isa/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// searchLimit caps keyword search results so prompts stay small
const searchLimit = 10

// ProductRepository handles catalog data access.
// Every query runs matricula-first and falls back to the user_id column when
// the matricula yields nothing, for products written before matriculas
// existed.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) active() *gorm.DB {
	return r.db.Model(&models.Product{}).Where("is_active = ?", true)
}

// ListActiveCatalog returns every active product in the tenant's catalog,
// ordered by name.
func (r *ProductRepository) ListActiveCatalog(matricula string, tenantID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if matricula != "" {
		err := r.active().Where("matricula = ?", matricula).
			Order("name ASC").
			Find(&products).Error
		if err != nil {
			return nil, err
		}
	}
	if len(products) == 0 && tenantID != uuid.Nil {
		err := r.active().Where("user_id = ?", tenantID).
			Order("name ASC").
			Find(&products).Error
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}

// FindByCodes looks up active products by their 6-character codes, one row
// per code. Codes absent from the catalog are simply not in the result.
func (r *ProductRepository) FindByCodes(matricula string, tenantID uuid.UUID, codes []string) ([]models.Product, error) {
	var products []models.Product
	for _, code := range codes {
		code = strings.ToUpper(code)

		var product models.Product
		err := gorm.ErrRecordNotFound
		if matricula != "" {
			err = r.active().Where("matricula = ? AND UPPER(code) = ?", matricula, code).
				First(&product).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) && tenantID != uuid.Nil {
			err = r.active().Where("user_id = ? AND UPPER(code) = ?", tenantID, code).
				First(&product).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// SearchByKeyword matches a single term against name, description and
// category, case insensitive, capped at searchLimit rows.
func (r *ProductRepository) SearchByKeyword(matricula string, tenantID uuid.UUID, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	pattern := "%" + term + "%"

	var products []models.Product
	if matricula != "" {
		err := r.active().
			Where("matricula = ?", matricula).
			Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", pattern, pattern, pattern).
			Limit(searchLimit).
			Find(&products).Error
		if err != nil {
			return nil, err
		}
	}
	if len(products) == 0 && tenantID != uuid.Nil {
		err := r.active().
			Where("user_id = ?", tenantID).
			Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", pattern, pattern, pattern).
			Limit(searchLimit).
			Find(&products).Error
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}
