package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apartment-booking/backend/internal/storage/models"
)

// UnitRepository provides data access for properties and rental units.
// The availability engine only reads units; writes exist for seeding and
// owner-facing plumbing.
type UnitRepository struct {
	BaseRepository
}

// NewUnitRepository creates a new unit repository.
func NewUnitRepository(db *DB) *UnitRepository {
	return &UnitRepository{BaseRepository: NewBaseRepository(db)}
}

// GetByID retrieves a unit by its ID. Returns nil when no unit exists.
func (r *UnitRepository) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	unit := &models.Unit{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, property_id, name, max_guests, base_price, cleaning_fee, created_at, updated_at
		FROM units WHERE id = ?
	`, id).Scan(
		&unit.ID, &unit.PropertyID, &unit.Name, &unit.MaxGuests,
		&unit.BasePrice, &unit.CleaningFee, &unit.CreatedAt, &unit.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying unit: %w", err)
	}

	return unit, nil
}

// List retrieves all units, ordered by name.
func (r *UnitRepository) List(ctx context.Context) ([]models.Unit, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, property_id, name, max_guests, base_price, cleaning_fee, created_at, updated_at
		FROM units ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var unit models.Unit
		if err := rows.Scan(
			&unit.ID, &unit.PropertyID, &unit.Name, &unit.MaxGuests,
			&unit.BasePrice, &unit.CleaningFee, &unit.CreatedAt, &unit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

// Create inserts a new unit.
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	if unit.ID == "" {
		unit.ID = GenerateID()
	}
	unit.CreatedAt = r.Now()
	unit.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO units (id, property_id, name, max_guests, base_price, cleaning_fee, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		unit.ID, unit.PropertyID, unit.Name, unit.MaxGuests,
		unit.BasePrice, unit.CleaningFee, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting unit: %w", err)
	}

	return nil
}

// GetProperty retrieves the property a unit belongs to.
// Returns nil when no property exists.
func (r *UnitRepository) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	prop := &models.Property{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, owner_id, name, address, city, created_at, updated_at
		FROM properties WHERE id = ?
	`, id).Scan(
		&prop.ID, &prop.OwnerID, &prop.Name, &prop.Address, &prop.City,
		&prop.CreatedAt, &prop.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}

	return prop, nil
}

// CreateProperty inserts a new property.
func (r *UnitRepository) CreateProperty(ctx context.Context, prop *models.Property) error {
	if prop.ID == "" {
		prop.ID = GenerateID()
	}
	prop.CreatedAt = r.Now()
	prop.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO properties (id, owner_id, name, address, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		prop.ID, prop.OwnerID, prop.Name, prop.Address, prop.City,
		prop.CreatedAt, prop.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}
