package bom

// FillGaps replaces every blank entry of primary with the corresponding
// secondary entry, in place, and returns primary. Non-blank primary entries
// are never overwritten, so the merge is idempotent. A length mismatch only
// occurs when one side is the single-blank placeholder form; that case
// short-circuits to all-blank instead of indexing out of range.
func FillGaps(primary, secondary []string) []string {
	if len(primary) != len(secondary) {
		return []string{""}
	}
	for i := range primary {
		if primary[i] == "" && secondary[i] != "" {
			primary[i] = secondary[i]
		}
	}
	return primary
}

// FileData is the merged primary/secondary view row projection reads from.
// Manufacturer and price take secondary values where the primary is blank;
// order codes and supplier labels stay per-supplier so both appear in the
// output.
type FileData struct {
	Manufacturer        []string
	PrimaryOrderCodes   []string
	PrimarySupplier     []string
	SecondaryOrderCodes []string
	SecondarySupplier   []string
	Price               []string
	CurrencySymbol      []string
}

// MergeFileData combines the two suppliers' enrichments. When the arrays
// come out empty the whole structure collapses to the single-blank form so
// downstream indexing stays uniform.
func MergeFileData(primary, secondary *Enrichment) *FileData {
	d := &FileData{
		Manufacturer:        FillGaps(primary.Manufacturers, secondary.Manufacturers),
		PrimaryOrderCodes:   primary.OrderCodes,
		PrimarySupplier:     primary.Suppliers,
		SecondaryOrderCodes: secondary.OrderCodes,
		SecondarySupplier:   secondary.Suppliers,
		Price:               FillGaps(primary.Price, secondary.Price),
		CurrencySymbol:      primary.Currency,
	}
	if len(d.Manufacturer) == 0 {
		d.Manufacturer = []string{""}
		d.PrimaryOrderCodes = []string{""}
		d.PrimarySupplier = []string{""}
		d.SecondaryOrderCodes = []string{""}
		d.SecondarySupplier = []string{""}
		d.Price = []string{""}
		d.CurrencySymbol = []string{""}
	}
	return d
}
