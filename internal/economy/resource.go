// Package economy holds the shared data model of a game's economy: the closed
// resource and building enumerations, difficulty, price state and the clamping
// helpers used by the pricing and event engines.
package economy

import (
	"fmt"
)

// ResourceType is one of the five fixed tradable resources.
type ResourceType string

const (
	ResourceFood            ResourceType = "food"
	ResourceRawMaterials    ResourceType = "raw_materials"
	ResourceElectricalGoods ResourceType = "electrical_goods"
	ResourceMedicalGoods    ResourceType = "medical_goods"
	ResourceCurrency        ResourceType = "currency"
)

// Resources lists every resource in a stable order.
var Resources = []ResourceType{
	ResourceFood,
	ResourceRawMaterials,
	ResourceElectricalGoods,
	ResourceMedicalGoods,
	ResourceCurrency,
}

// ParseResourceType converts a wire name into a ResourceType.
func ParseResourceType(s string) (ResourceType, error) {
	for _, r := range Resources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResource, s)
}

func (r ResourceType) String() string {
	return string(r)
}

// UnmarshalText rejects names outside the closed set.
func (r *ResourceType) UnmarshalText(text []byte) error {
	parsed, err := ParseResourceType(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// DefaultBaselines are used for any resource a scenario does not price.
var DefaultBaselines = map[ResourceType]int{
	ResourceFood:            20,
	ResourceRawMaterials:    15,
	ResourceElectricalGoods: 40,
	ResourceMedicalGoods:    50,
	ResourceCurrency:        10,
}
