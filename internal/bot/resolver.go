package bot

import (
	"context"
	"errors"
	"strings"

	"autoparts_backend/internal/catalog"
	"autoparts_backend/internal/partsapi"
	"autoparts_backend/platform/logger"
)

// maxResults caps every resolution strategy. Fixed, not configurable per request.
const maxResults = 10

// ErrVehicleNotFound is the terminal not-found branch of the chassis strategy.
// It is not a failure: the orchestrator short-circuits to a fixed localized
// message and skips the synthesizer.
var ErrVehicleNotFound = errors.New("no vehicle found for chassis number")

// Resolver executes the intent-specific search strategies. Provider errors are
// swallowed and treated as an empty tier; only local store errors and the
// chassis not-found signal surface to the orchestrator.
type Resolver struct {
	catalog  CatalogStore
	provider PartsProvider
	log      *logger.Logger
}

// NewResolver creates a resolver. provider may be nil.
func NewResolver(store CatalogStore, provider PartsProvider, log *logger.Logger) *Resolver {
	return &Resolver{catalog: store, provider: provider, log: log}
}

// Resolve runs the strategy for the classified intent and returns normalized
// results, at most maxResults of them.
func (r *Resolver) Resolve(ctx context.Context, cls Classification, rawText string) ([]Result, error) {
	switch cls.Intent {
	case IntentPartNumber:
		return r.resolvePartNumber(ctx, cls, rawText)
	case IntentChassis:
		return r.resolveChassis(ctx, cls, rawText)
	case IntentCarPart:
		return r.resolveCarPart(ctx, cls, rawText)
	case IntentGreeting, IntentUnknown:
		return nil, nil
	default:
		return nil, nil
	}
}

// resolvePartNumber searches the local catalog first and falls through to the
// external provider only when the local tier is empty. Tiers are never merged.
func (r *Resolver) resolvePartNumber(ctx context.Context, cls Classification, rawText string) ([]Result, error) {
	query := cls.Entity(EntityPartNumber)
	if query == "" {
		query = strings.TrimSpace(rawText)
	}

	parts, err := r.catalog.PartsByPartNumber(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(parts) > 0 {
		return resultsFromCatalog(parts), nil
	}

	if r.provider == nil {
		return nil, nil
	}
	external, err := r.provider.FindPartsByPartNumber(ctx, query)
	if err != nil {
		r.log.UpstreamDegraded("partsapi", "find parts by part number", err)
		return nil, nil
	}
	return resultsFromProvider(external), nil
}

// resolveChassis asks the external provider for the vehicle identity, then the
// local catalog for its parts. The provider is never consulted for parts, only
// for identity; an unknown vehicle is the terminal not-found branch.
func (r *Resolver) resolveChassis(ctx context.Context, cls Classification, rawText string) ([]Result, error) {
	query := cls.Entity(EntityChassis)
	if query == "" {
		query = strings.TrimSpace(rawText)
	}

	if r.provider == nil {
		return nil, ErrVehicleNotFound
	}
	identity, err := r.provider.LookupVehicleByChassis(ctx, query)
	if err != nil {
		r.log.UpstreamDegraded("partsapi", "lookup vehicle by chassis", err)
		return nil, ErrVehicleNotFound
	}
	if identity == nil {
		return nil, ErrVehicleNotFound
	}

	vehicle, err := r.catalog.VehicleByChassis(ctx, identity.ChassisNumber)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, nil
	}

	parts, err := r.catalog.PartsByVehicle(ctx, vehicle.ID, maxResults)
	if err != nil {
		return nil, err
	}
	return resultsFromCatalog(parts), nil
}

// resolveCarPart matches parts by name against a vehicle set derived from the
// make/model tokens. Parts with no vehicle association are always eligible;
// an empty token list means "match all vehicles", never "match none".
func (r *Resolver) resolveCarPart(ctx context.Context, cls Classification, rawText string) ([]Result, error) {
	carQuery := strings.TrimSpace(cls.Entity(EntityCarMake) + " " + cls.Entity(EntityCarModel))
	if carQuery == "" {
		carQuery = rawText
	}
	partName := cls.Entity(EntityPartName)
	if partName == "" {
		partName = rawText
	}

	tokens := strings.Fields(carQuery)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}

	anyVehicle := len(tokens) == 0
	var vehicleIDs []int64
	if !anyVehicle {
		vehicles, err := r.catalog.VehiclesByMakeOrModel(ctx, tokens)
		if err != nil {
			return nil, err
		}
		vehicleIDs = make([]int64, 0, len(vehicles))
		for _, v := range vehicles {
			vehicleIDs = append(vehicleIDs, v.ID)
		}
	}

	parts, err := r.catalog.PartsByNameAndVehicles(ctx, partName, vehicleIDs, anyVehicle, maxResults)
	if err != nil {
		return nil, err
	}
	return resultsFromCatalog(parts), nil
}

func resultsFromCatalog(parts []catalog.Part) []Result {
	results := make([]Result, 0, len(parts))
	for _, p := range parts {
		result := Result{
			PartNumber:  p.PartNumber,
			Name:        p.Name,
			Brand:       p.Brand,
			Price:       normalizePrice(p.Price),
			QuantityMin: p.QuantityMin,
		}
		if p.Vehicle != nil {
			result.Vehicle = &ResultVehicle{
				Make:          p.Vehicle.Make,
				Model:         p.Vehicle.Model,
				Year:          p.Vehicle.Year,
				ChassisNumber: p.Vehicle.ChassisNumber,
			}
		}
		results = append(results, result)
		if len(results) == maxResults {
			break
		}
	}
	return results
}

func resultsFromProvider(parts []partsapi.Part) []Result {
	results := make([]Result, 0, len(parts))
	for _, p := range parts {
		if p.PartNumber == "" && p.Name == "" {
			continue
		}
		result := Result{
			PartNumber:  p.PartNumber,
			Name:        p.Name,
			Brand:       p.Brand,
			Price:       normalizePrice(p.Price),
			QuantityMin: p.QuantityMin,
		}
		if p.Vehicle != nil {
			result.Vehicle = &ResultVehicle{
				Make:          p.Vehicle.Make,
				Model:         p.Vehicle.Model,
				Year:          p.Vehicle.Year,
				ChassisNumber: p.Vehicle.ChassisNumber,
			}
		}
		results = append(results, result)
		if len(results) == maxResults {
			break
		}
	}
	return results
}

// normalizePrice drops negative prices rather than surfacing them.
func normalizePrice(price *float64) *float64 {
	if price == nil || *price < 0 {
		return nil
	}
	return price
}
