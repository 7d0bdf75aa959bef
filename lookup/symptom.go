package lookup

import (
	"context"

	"github.com/giygas/yakguide/entities"
)

// BySymptom fetches up to SymptomPageSize medications whose indication text
// matches phrase, in provider order.
func (s *Service) BySymptom(ctx context.Context, phrase string) Result[entities.Medication] {
	return observe(FlowSymptom, s.bySymptom(ctx, phrase))
}

func (s *Service) bySymptom(ctx context.Context, phrase string) Result[entities.Medication] {
	phrase, err := s.validator.NormalizeInput(phrase)
	if err != nil {
		return Failed[entities.Medication](err)
	}

	params := s.drugParams(SymptomPageSize)
	params["efcyQesitm"] = phrase

	payload, err := s.drugs.FetchJSON(ctx, s.endpoints.DrugURL, params)
	if err != nil {
		return Failed[entities.Medication](err)
	}

	items, err := medicationItems(payload)
	if err != nil {
		return Failed[entities.Medication](err)
	}

	if len(items) > SymptomPageSize {
		items = items[:SymptomPageSize]
	}

	records := make([]entities.Medication, 0, len(items))
	for _, item := range items {
		records = append(records, toMedicationSummary(item))
	}

	return Found(records)
}

// toMedicationSummary keeps name, indication and manufacturer; the summary
// endpoint does not return the other fields for multi-row queries.
func toMedicationSummary(item map[string]any) entities.Medication {
	return entities.Medication{
		Name:                textField(item, "itemName", entities.NotAvailable),
		Manufacturer:        textField(item, "entpName", entities.NotAvailable),
		Indication:          textField(item, "efcyQesitm", entities.NotAvailable),
		UsageInstructions:   entities.NotAvailable,
		Warnings:            entities.NotAvailable,
		StorageInstructions: entities.NotAvailable,
	}
}
