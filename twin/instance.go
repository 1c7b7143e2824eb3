package twin

// Instance describes a running digital twin: its identifier, the physical
// assets it mirrors, and the adapters bound to it.
type Instance struct {
	ID               string   `json:"id"`
	PhysicalAssets   []string `json:"digitalized_physical_assets"`
	PhysicalAdapters []string `json:"physical_adapters"`
	DigitalAdapters  []string `json:"digital_adapters"`
}
