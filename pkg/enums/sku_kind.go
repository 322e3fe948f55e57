package enums

import "fmt"

// SkuKind maps to the sku_kind_enum enum in Postgres. Only finished products
// and combos may own BOM rows; raw materials are the leaves every expansion
// bottoms out at.
type SkuKind string

const (
	SkuKindRawMaterial     SkuKind = "raw_material"
	SkuKindFinishedProduct SkuKind = "finished_product"
	SkuKindCombo           SkuKind = "combo"
)

var validSkuKinds = []SkuKind{
	SkuKindRawMaterial,
	SkuKindFinishedProduct,
	SkuKindCombo,
}

// IsValid reports whether the value matches the canonical SKU kind enum.
func (k SkuKind) IsValid() bool {
	for _, candidate := range validSkuKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// HasBom reports whether this kind of SKU may own a bill of materials.
func (k SkuKind) HasBom() bool {
	return k == SkuKindFinishedProduct || k == SkuKindCombo
}

// ParseSkuKind converts raw input into SkuKind.
func ParseSkuKind(value string) (SkuKind, error) {
	for _, candidate := range validSkuKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sku kind %q", value)
}
