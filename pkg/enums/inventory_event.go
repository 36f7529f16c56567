package enums

// InventoryEventType labels events emitted after a reconciliation run.
type InventoryEventType string

const (
	EventVehicleSold       InventoryEventType = "competitor.vehicle.sold"
	EventVehicleReappeared InventoryEventType = "competitor.vehicle.reappeared"
	EventPriceChanged      InventoryEventType = "competitor.vehicle.price_changed"
)

// String implements fmt.Stringer.
func (e InventoryEventType) String() string {
	return string(e)
}
