package dataset

import "fmt"

type Kind string

const (
	KindSales   Kind = "sales"
	KindInbound Kind = "inbound"
	KindStock   Kind = "stock"
)

// Kinds lists every table kind in save order.
func Kinds() []Kind {
	return []Kind{KindSales, KindInbound, KindStock}
}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSales, KindInbound, KindStock:
		return k, nil
	}
	return "", fmt.Errorf("unknown table kind %q", s)
}

// Canonical column names shared by the ingest pipelines and the dashboard.
const (
	ColSKU           = "SKU"
	ColDate          = "Tanggal"
	ColQty           = "QTY"
	ColPrice         = "Harga"
	ColSubTotal      = "Sub Total"
	ColNettSales     = "Nett Sales"
	ColCOGS          = "HPP"
	ColGrossProfit   = "Gross Profit"
	ColTransactionID = "No Transaksi"
	ColCustomer      = "Customer ID"
	ColSalesman      = "Salesman"
	ColStore         = "Nama Toko"
	ColLocation      = "Lokasi"
)
