package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the read-only catalog queries used by the resolver.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const partColumns = `
	p.id, p.part_number, p.name, p.brand, p.price, p.quantity_min, p.vehicle_id,
	v.id, v.make, v.model, v.year, v.chassis_number`

// PartsByPartNumber returns parts whose part number contains the given
// substring, case-insensitively, in store order.
func (r *Repository) PartsByPartNumber(ctx context.Context, partNumber string, limit int) ([]Part, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+partColumns+`
		FROM parts p
		LEFT JOIN vehicles v ON v.id = p.vehicle_id
		WHERE p.part_number ILIKE '%' || $1 || '%'
		ORDER BY p.id
		LIMIT $2
	`, partNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("parts by part number: %w", err)
	}
	defer rows.Close()

	return scanParts(rows)
}

// VehicleByChassis returns the vehicle with the exact chassis number, or nil.
func (r *Repository) VehicleByChassis(ctx context.Context, chassisNumber string) (*Vehicle, error) {
	var v Vehicle
	var year, chassis *string
	err := r.pool.QueryRow(ctx, `
		SELECT id, make, model, year, chassis_number
		FROM vehicles
		WHERE chassis_number = $1
	`, chassisNumber).Scan(&v.ID, &v.Make, &v.Model, &year, &chassis)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vehicle by chassis: %w", err)
	}
	if year != nil {
		v.Year = *year
	}
	if chassis != nil {
		v.ChassisNumber = *chassis
	}
	return &v, nil
}

// PartsByVehicle returns parts linked to the given vehicle, in store order.
func (r *Repository) PartsByVehicle(ctx context.Context, vehicleID int64, limit int) ([]Part, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+partColumns+`
		FROM parts p
		LEFT JOIN vehicles v ON v.id = p.vehicle_id
		WHERE p.vehicle_id = $1
		ORDER BY p.id
		LIMIT $2
	`, vehicleID, limit)
	if err != nil {
		return nil, fmt.Errorf("parts by vehicle: %w", err)
	}
	defer rows.Close()

	return scanParts(rows)
}

// VehiclesByMakeOrModel returns vehicles where each token matches make or
// model as a case-insensitive substring. At most the first two tokens are
// considered; the filters are combined with AND.
func (r *Repository) VehiclesByMakeOrModel(ctx context.Context, tokens []string) ([]Vehicle, error) {
	query := `SELECT id, make, model, year, chassis_number FROM vehicles`
	args := make([]any, 0, 2)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	for i, token := range tokens {
		if i == 0 {
			query += fmt.Sprintf(" WHERE (make ILIKE '%%' || $%d || '%%' OR model ILIKE '%%' || $%d || '%%')", i+1, i+1)
		} else {
			query += fmt.Sprintf(" AND (make ILIKE '%%' || $%d || '%%' OR model ILIKE '%%' || $%d || '%%')", i+1, i+1)
		}
		args = append(args, token)
	}
	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vehicles by make or model: %w", err)
	}
	defer rows.Close()

	vehicles := make([]Vehicle, 0)
	for rows.Next() {
		var v Vehicle
		var year, chassis *string
		if err := rows.Scan(&v.ID, &v.Make, &v.Model, &year, &chassis); err != nil {
			return nil, err
		}
		if year != nil {
			v.Year = *year
		}
		if chassis != nil {
			v.ChassisNumber = *chassis
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// PartsByNameAndVehicles returns parts whose name contains namePattern,
// restricted to the given vehicle set. Parts with no vehicle association are
// always eligible. When anyVehicle is true the vehicle filter is skipped
// entirely (empty token list means "match all vehicles").
func (r *Repository) PartsByNameAndVehicles(ctx context.Context, namePattern string, vehicleIDs []int64, anyVehicle bool, limit int) ([]Part, error) {
	var rows pgx.Rows
	var err error
	if anyVehicle {
		rows, err = r.pool.Query(ctx, `
			SELECT `+partColumns+`
			FROM parts p
			LEFT JOIN vehicles v ON v.id = p.vehicle_id
			WHERE p.name ILIKE '%' || $1 || '%'
			ORDER BY p.id
			LIMIT $2
		`, namePattern, limit)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+partColumns+`
			FROM parts p
			LEFT JOIN vehicles v ON v.id = p.vehicle_id
			WHERE p.name ILIKE '%' || $1 || '%'
			  AND (p.vehicle_id IS NULL OR p.vehicle_id = ANY($2))
			ORDER BY p.id
			LIMIT $3
		`, namePattern, vehicleIDs, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("parts by name and vehicles: %w", err)
	}
	defer rows.Close()

	return scanParts(rows)
}

// CountParts returns the total number of catalog parts.
func (r *Repository) CountParts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM parts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count parts: %w", err)
	}
	return n, nil
}

// CountVehicles returns the total number of catalog vehicles.
func (r *Repository) CountVehicles(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

func scanParts(rows pgx.Rows) ([]Part, error) {
	parts := make([]Part, 0)
	for rows.Next() {
		var p Part
		var brand *string
		var vehicleID *int64
		var vID *int64
		var vMake, vModel, vYear, vChassis *string
		if err := rows.Scan(
			&p.ID, &p.PartNumber, &p.Name, &brand, &p.Price, &p.QuantityMin, &vehicleID,
			&vID, &vMake, &vModel, &vYear, &vChassis,
		); err != nil {
			return nil, err
		}
		if brand != nil {
			p.Brand = *brand
		}
		p.VehicleID = vehicleID
		if vID != nil {
			v := Vehicle{ID: *vID}
			if vMake != nil {
				v.Make = *vMake
			}
			if vModel != nil {
				v.Model = *vModel
			}
			if vYear != nil {
				v.Year = *vYear
			}
			if vChassis != nil {
				v.ChassisNumber = *vChassis
			}
			p.Vehicle = &v
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}
