package lookup

import (
	"context"
	"fmt"

	"github.com/giygas/yakguide/entities"
)

// NearAddress searches for pharmacies around address and returns at most
// PharmacyLimit results in provider order. Unlike the medication flows, a
// payload without a results list is a failure, not NoMatches.
func (s *Service) NearAddress(ctx context.Context, address string) Result[entities.Pharmacy] {
	return observe(FlowPharmacy, s.nearAddress(ctx, address))
}

func (s *Service) nearAddress(ctx context.Context, address string) Result[entities.Pharmacy] {
	address, err := s.validator.NormalizeInput(address)
	if err != nil {
		return Failed[entities.Pharmacy](err)
	}

	params := map[string]string{
		"query": address + " " + pharmacySuffix,
		"key":   s.endpoints.PlacesKey,
	}

	payload, err := s.places.FetchJSON(ctx, s.endpoints.PlacesURL, params)
	if err != nil {
		return Failed[entities.Pharmacy](fmt.Errorf("%w: %w", ErrPharmacyUnavailable, err))
	}

	results, err := placeResults(payload)
	if err != nil {
		return Failed[entities.Pharmacy](fmt.Errorf("%w: %w", ErrPharmacyUnavailable, err))
	}

	if len(results) > PharmacyLimit {
		results = results[:PharmacyLimit]
	}

	pharmacies := make([]entities.Pharmacy, 0, len(results))
	for _, place := range results {
		pharmacies = append(pharmacies, entities.Pharmacy{
			Name:    textField(place, "name", entities.NoPharmacyName),
			Address: textField(place, "formatted_address", entities.NoAddress),
			Rating:  numberField(place, "rating"),
		})
	}

	return Found(pharmacies)
}

// placeResults returns the result objects of a place-search payload
func placeResults(payload map[string]any) ([]map[string]any, error) {
	if status := textField(payload, "status", ""); rejectedPlaceStatuses[status] {
		return nil, &ProviderError{
			Provider: ProviderPlaces,
			Code:     status,
			Message:  textField(payload, "error_message", ""),
		}
	}

	raw, ok := payload["results"].([]any)
	if !ok {
		return nil, errMissingResults
	}

	return objects(raw), nil
}
