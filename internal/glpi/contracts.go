package glpi

import (
	"context"
	"fmt"
	"strings"

	"docbridge/internal/domain"
	"docbridge/internal/port"
)

// allowedContractParams is the set of GLPI Contract fields we are willing
// to write. Anything else in the input map is dropped, not rejected.
var allowedContractParams = map[string]struct{}{
	"name":             {},
	"num":              {},
	"begin_date":       {},
	"end_date":         {},
	"renewal_type":     {},
	"cost":             {},
	"comment":          {},
	"suppliers_id":     {},
	"contracttypes_id": {},
	"states_id":        {},
}

// ContractCreateFields maps an extracted contract onto GLPI Contract
// creation fields. Absent optionals are omitted so GLPI applies its own
// defaults instead of receiving nulls.
func ContractCreateFields(c *domain.ExtractedContract) map[string]any {
	fields := map[string]any{
		"name": c.ContractName,
	}
	if c.Num != nil && *c.Num != "" {
		fields["num"] = *c.Num
	}
	if c.StartDate != nil && *c.StartDate != "" {
		fields["begin_date"] = *c.StartDate
	}
	if c.EndDate != nil && *c.EndDate != "" {
		fields["end_date"] = *c.EndDate
	}
	if c.RenewalEnum != nil {
		fields["renewal_type"] = *c.RenewalEnum
	} else {
		fields["renewal_type"] = domain.RenewalNone
	}
	if c.Amount != nil {
		fields["cost"] = *c.Amount
	}

	comment := strings.TrimSpace(c.Summary)
	if c.PaymentTerms != nil && *c.PaymentTerms != "" {
		if comment != "" {
			comment += "\n\n"
		}
		comment += "Payment terms: " + *c.PaymentTerms
	}
	if comment != "" {
		fields["comment"] = comment
	}
	return fields
}

// CreateContract creates a Contract record and returns its id and name.
func (c *Client) CreateContract(ctx context.Context, fields map[string]any) (*port.CreatedRecord, error) {
	input := map[string]any{}
	for k, v := range fields {
		if _, ok := allowedContractParams[k]; ok {
			input[k] = v
		}
	}
	name, _ := input["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("contract name is required")
	}

	var created struct {
		ID int `json:"id"`
	}
	if err := c.Post(ctx, "Contract", input, &created); err != nil {
		return nil, err
	}
	if created.ID == 0 {
		return nil, fmt.Errorf("GLPI did not return an id for created contract %q", name)
	}
	return &port.CreatedRecord{ID: created.ID, Name: name}, nil
}

// GetContract fetches a Contract record by id.
func (c *Client) GetContract(ctx context.Context, id int) (map[string]any, error) {
	var record map[string]any
	if err := c.Get(ctx, fmt.Sprintf("Contract/%d", id), &record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateContract updates the allowed fields of an existing Contract.
func (c *Client) UpdateContract(ctx context.Context, id int, fields map[string]any) error {
	input := map[string]any{"id": id}
	for k, v := range fields {
		if _, ok := allowedContractParams[k]; ok {
			input[k] = v
		}
	}
	return c.Put(ctx, fmt.Sprintf("Contract/%d", id), input, nil)
}
