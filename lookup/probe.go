package lookup

import (
	"context"
)

// ProviderProbe is a cheap request proving a provider answers with a usable payload
type ProviderProbe struct {
	Provider string
	Run      func(ctx context.Context) error
}

// Probes returns one probe per provider for the scheduler
func (s *Service) Probes() []ProviderProbe {
	return []ProviderProbe{
		{Provider: ProviderMedication, Run: s.probeMedication},
		{Provider: ProviderPlaces, Run: s.probePlaces},
	}
}

func (s *Service) probeMedication(ctx context.Context) error {
	payload, err := s.drugs.FetchJSON(ctx, s.endpoints.DrugURL, s.drugParams(1))
	if err != nil {
		return err
	}
	_, err = medicationItems(payload)
	return err
}

func (s *Service) probePlaces(ctx context.Context) error {
	payload, err := s.places.FetchJSON(ctx, s.endpoints.PlacesURL, map[string]string{
		"query": pharmacySuffix,
		"key":   s.endpoints.PlacesKey,
	})
	if err != nil {
		return err
	}
	_, err = placeResults(payload)
	return err
}
