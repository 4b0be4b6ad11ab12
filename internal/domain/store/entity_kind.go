package store

import (
	"path"
	"sort"
	"strings"
	"unicode"
)

// EntityKind identifies one of the nine record types that can be bulk loaded.
// The string value is also the file-name tag used to classify archive entries.
type EntityKind string

const (
	KindShop            EntityKind = "Shop"
	KindElectroType     EntityKind = "ElectroType"
	KindPositionType    EntityKind = "PositionType"
	KindPurchaseType    EntityKind = "PurchaseType"
	KindElectroItem     EntityKind = "ElectroItem"
	KindEmployee        EntityKind = "Employee"
	KindPurchase        EntityKind = "Purchase"
	KindElectroShop     EntityKind = "ElectroShop"
	KindElectroEmployee EntityKind = "ElectroEmployee"
)

// loadPriority is the fixed load order. A kind only references kinds with a
// lower or equal number, so an ascending pass always finds its references.
var loadPriority = map[EntityKind]int{
	KindElectroType:     1,
	KindPositionType:    1,
	KindPurchaseType:    1,
	KindShop:            1,
	KindElectroItem:     2,
	KindEmployee:        2,
	KindPurchase:        3,
	KindElectroEmployee: 4,
	KindElectroShop:     4,
}

// allKinds lists the kinds in their documented tag order.
var allKinds = []EntityKind{
	KindElectroEmployee,
	KindElectroItem,
	KindElectroShop,
	KindElectroType,
	KindEmployee,
	KindPositionType,
	KindPurchaseType,
	KindPurchase,
	KindShop,
}

// classificationOrder is allKinds sorted by tag length, longest first.
var classificationOrder = func() []EntityKind {
	kinds := make([]EntityKind, len(allKinds))
	copy(kinds, allKinds)
	sort.SliceStable(kinds, func(i, j int) bool {
		return len(kinds[i]) > len(kinds[j])
	})
	return kinds
}()

// AllKinds returns every entity kind
func AllKinds() []EntityKind {
	kinds := make([]EntityKind, len(allKinds))
	copy(kinds, allKinds)
	return kinds
}

// IsValid checks if the kind is one of the known kinds
func (k EntityKind) IsValid() bool {
	_, ok := loadPriority[k]
	return ok
}

// Priority returns the load tier of the kind (1..4), or 0 for an unknown kind
func (k EntityKind) Priority() int {
	return loadPriority[k]
}

// Slug returns the lower-case name used in URL paths (e.g. "electroitem")
func (k EntityKind) Slug() string {
	return strings.ToLower(string(k))
}

// String implements fmt.Stringer
func (k EntityKind) String() string {
	return string(k)
}

// ParseEntityKind resolves a kind from its tag or slug, ignoring case.
func ParseEntityKind(s string) (EntityKind, bool) {
	for _, k := range allKinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// ClassifyFileName maps an archive entry name to the entity kind it populates.
//
// Directories are dropped and the ".csv" extension is stripped. The remaining
// base name must equal a tag, or start with a tag followed by a character that
// is not a letter ("Shop_2024", "Shop-1"). Tags are tried longest first so
// "ElectroEmployee" is never taken for "Employee" nor "PurchaseType" for "Purchase".
func ClassifyFileName(name string) (EntityKind, bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if ext := path.Ext(base); strings.EqualFold(ext, ".csv") {
		base = strings.TrimSuffix(base, ext)
	}

	for _, k := range classificationOrder {
		tag := string(k)
		if !strings.HasPrefix(base, tag) {
			continue
		}
		rest := base[len(tag):]
		if rest == "" {
			return k, true
		}
		r := []rune(rest)[0]
		if !unicode.IsLetter(r) {
			return k, true
		}
	}
	return "", false
}
