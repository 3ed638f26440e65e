package economy

import "fmt"

// BuildingKind is a type of building a team can own.
type BuildingKind string

const (
	BuildingFarm              BuildingKind = "farm"
	BuildingMine              BuildingKind = "mine"
	BuildingElectricalFactory BuildingKind = "electrical_factory"
	BuildingMedicalFactory    BuildingKind = "medical_factory"
	BuildingInfrastructure    BuildingKind = "infrastructure"
	BuildingHospital          BuildingKind = "hospital"
	BuildingRestaurant        BuildingKind = "restaurant"
)

// Buildings lists every building kind in a stable order.
var Buildings = []BuildingKind{
	BuildingFarm,
	BuildingMine,
	BuildingElectricalFactory,
	BuildingMedicalFactory,
	BuildingInfrastructure,
	BuildingHospital,
	BuildingRestaurant,
}

// ProductionBuildings are the kinds that produce a resource each cycle.
var ProductionBuildings = []BuildingKind{
	BuildingFarm,
	BuildingMine,
	BuildingElectricalFactory,
	BuildingMedicalFactory,
}

// ParseBuildingKind converts a wire name into a BuildingKind.
func ParseBuildingKind(s string) (BuildingKind, error) {
	for _, b := range Buildings {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBuilding, s)
}

func (b BuildingKind) String() string {
	return string(b)
}

// UnmarshalText rejects names outside the closed set.
func (b *BuildingKind) UnmarshalText(text []byte) error {
	parsed, err := ParseBuildingKind(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Produces returns the resource a production building yields. The second
// return is false for support buildings.
func (b BuildingKind) Produces() (ResourceType, bool) {
	switch b {
	case BuildingFarm:
		return ResourceFood, true
	case BuildingMine:
		return ResourceRawMaterials, true
	case BuildingElectricalFactory:
		return ResourceElectricalGoods, true
	case BuildingMedicalFactory:
		return ResourceMedicalGoods, true
	default:
		return "", false
	}
}
