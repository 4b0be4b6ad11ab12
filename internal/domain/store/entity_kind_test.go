package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFileName(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		want   EntityKind
		wantOK bool
	}{
		{"shop", "Shop.csv", KindShop, true},
		{"electro shop not shop", "ElectroShop.csv", KindElectroShop, true},
		{"electro employee not employee", "ElectroEmployee.csv", KindElectroEmployee, true},
		{"employee", "Employee.csv", KindEmployee, true},
		{"purchase type not purchase", "PurchaseType.csv", KindPurchaseType, true},
		{"purchase", "Purchase.csv", KindPurchase, true},
		{"electro item", "ElectroItem.csv", KindElectroItem, true},
		{"electro type", "ElectroType.csv", KindElectroType, true},
		{"position type", "PositionType.csv", KindPositionType, true},
		{"nested directory", "export/2024/Shop.csv", KindShop, true},
		{"windows separators", "export\\Employee.csv", KindEmployee, true},
		{"suffix after separator", "Shop_2024.csv", KindShop, true},
		{"dash suffix", "ElectroItem-part1.csv", KindElectroItem, true},
		{"upper case extension", "Shop.CSV", KindShop, true},
		{"plural is unknown", "Shops.csv", "", false},
		{"lower case is unknown", "shop.csv", "", false},
		{"tag not at start", "MyShop.csv", "", false},
		{"prefixed export name", "export_Shop.csv", "", false},
		{"unrelated", "readme.csv", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyFileName(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntityKind_Priority(t *testing.T) {
	for _, k := range []EntityKind{KindShop, KindElectroType, KindPositionType, KindPurchaseType} {
		assert.Equal(t, 1, k.Priority(), k)
	}
	assert.Equal(t, 2, KindElectroItem.Priority())
	assert.Equal(t, 2, KindEmployee.Priority())
	assert.Equal(t, 3, KindPurchase.Priority())
	assert.Equal(t, 4, KindElectroShop.Priority())
	assert.Equal(t, 4, KindElectroEmployee.Priority())
	assert.Equal(t, 0, EntityKind("Unknown").Priority())
}

func TestEntityKind_ReferencesPointDownward(t *testing.T) {
	refs := map[EntityKind][]EntityKind{
		KindElectroItem:     {KindElectroType},
		KindEmployee:        {KindPositionType, KindShop},
		KindPurchase:        {KindElectroItem, KindEmployee, KindPurchaseType, KindShop},
		KindElectroShop:     {KindShop, KindElectroItem},
		KindElectroEmployee: {KindEmployee, KindElectroType},
	}
	for kind, targets := range refs {
		for _, target := range targets {
			assert.Less(t, target.Priority(), kind.Priority(), "%s -> %s", kind, target)
		}
	}
}

func TestParseEntityKind(t *testing.T) {
	k, ok := ParseEntityKind("electroitem")
	assert.True(t, ok)
	assert.Equal(t, KindElectroItem, k)

	k, ok = ParseEntityKind("PurchaseType")
	assert.True(t, ok)
	assert.Equal(t, KindPurchaseType, k)

	_, ok = ParseEntityKind("warehouse")
	assert.False(t, ok)
}

func TestAllKinds(t *testing.T) {
	kinds := AllKinds()
	assert.Len(t, kinds, 9)
	for _, k := range kinds {
		assert.True(t, k.IsValid())
		assert.Equal(t, k, EntityKind(k.String()))
	}
	kinds[0] = "mutated"
	assert.NotEqual(t, EntityKind("mutated"), AllKinds()[0])
}
