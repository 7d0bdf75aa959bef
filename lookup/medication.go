package lookup

import (
	"context"
	"strconv"

	"github.com/giygas/yakguide/entities"
)

// ByExactName fetches the first medication whose item name matches name
func (s *Service) ByExactName(ctx context.Context, name string) Result[entities.Medication] {
	return observe(FlowMedication, s.byExactName(ctx, name))
}

func (s *Service) byExactName(ctx context.Context, name string) Result[entities.Medication] {
	name, err := s.validator.NormalizeInput(name)
	if err != nil {
		return Failed[entities.Medication](err)
	}

	params := s.drugParams(1)
	params["itemName"] = name

	payload, err := s.drugs.FetchJSON(ctx, s.endpoints.DrugURL, params)
	if err != nil {
		return Failed[entities.Medication](err)
	}

	items, err := medicationItems(payload)
	if err != nil {
		return Failed[entities.Medication](err)
	}
	if len(items) == 0 {
		return NoMatches[entities.Medication]()
	}

	return Found([]entities.Medication{toMedication(items[0])})
}

func (s *Service) drugParams(rows int) map[string]string {
	return map[string]string{
		"serviceKey": s.endpoints.DrugKey,
		"pageNo":     "1",
		"numOfRows":  strconv.Itoa(rows),
		"type":       "json",
	}
}

func toMedication(item map[string]any) entities.Medication {
	return entities.Medication{
		Name:                textField(item, "itemName", entities.NotAvailable),
		Manufacturer:        textField(item, "entpName", entities.NotAvailable),
		Indication:          textField(item, "efcyQesitm", entities.NotAvailable),
		UsageInstructions:   textField(item, "useMethodQesitm", entities.NotAvailable),
		Warnings:            textField(item, "atpnWarnQesitm", entities.NotAvailable),
		StorageInstructions: textField(item, "depositMethodQesitm", entities.NotAvailable),
	}
}
