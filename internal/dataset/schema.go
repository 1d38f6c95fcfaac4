package dataset

// Schema records which optional columns a table carries so callers branch on
// typed flags instead of probing column names.
type Schema struct {
	HasSKU           bool `json:"has_sku"`
	HasDate          bool `json:"has_date"`
	HasTransactionID bool `json:"has_transaction_id"`
	HasCustomer      bool `json:"has_customer"`
	HasSalesman      bool `json:"has_salesman"`
	HasStore         bool `json:"has_store"`
	HasLocation      bool `json:"has_location"`
}

func DescribeSchema(t Table) Schema {
	return Schema{
		HasSKU:           t.HasColumn(ColSKU),
		HasDate:          t.HasColumn(ColDate),
		HasTransactionID: t.HasColumn(ColTransactionID),
		HasCustomer:      t.HasColumn(ColCustomer),
		HasSalesman:      t.HasColumn(ColSalesman),
		HasStore:         t.HasColumn(ColStore),
		HasLocation:      t.HasColumn(ColLocation),
	}
}
