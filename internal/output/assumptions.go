package output

// DefaultAssumptions lists the modelling assumptions rendered in detailed outputs
var DefaultAssumptions = []string{
	"Unified-simplified: progressive table on annual gross revenue, only up to the revenue ceiling",
	"Presumed profit: revenue × (sector service-tax rate + state consumption-tax rate)",
	"Real profit: net profit × combined corporate rate",
	"Prospective IBS+CBS: revenue × (state value-added rate + federal add-on)",
	"Unknown states and sectors use the default rates",
	"Ties between regimes go to the first regime in the order listed above",
}
