package importapp

import (
	"github.com/Apolones/estore/internal/domain/store"
	csvimport "github.com/Apolones/estore/internal/infrastructure/import"
)

// DefaultLoaders returns a loader for every entity kind
func DefaultLoaders() map[store.EntityKind]EntityLoader {
	loaders := []EntityLoader{
		NewShopLoader(),
		NewElectroTypeLoader(),
		NewPositionTypeLoader(),
		NewPurchaseTypeLoader(),
		NewElectroItemLoader(),
		NewEmployeeLoader(),
		NewPurchaseLoader(),
		NewElectroShopLoader(),
		NewElectroEmployeeLoader(),
	}

	byKind := make(map[store.EntityKind]EntityLoader, len(loaders))
	for _, l := range loaders {
		byKind[l.Kind()] = l
	}
	return byKind
}

// NewShopLoader loads id;name;address
func NewShopLoader() EntityLoader {
	return &tableLoader[store.Shop]{
		kind:  store.KindShop,
		width: 2,
		mapRow: func(row *csvimport.Row) (store.Shop, []reference, error) {
			id, err := row.Int64(0)
			if err != nil {
				return store.Shop{}, nil, err
			}
			return store.Shop{ID: id, Name: row.Get(1), Address: row.Get(2)}, nil, nil
		},
	}
}

// NewElectroTypeLoader loads id;name
func NewElectroTypeLoader() EntityLoader {
	return &tableLoader[store.ElectroType]{
		kind:  store.KindElectroType,
		width: 2,
		mapRow: func(row *csvimport.Row) (store.ElectroType, []reference, error) {
			id, err := row.Int64(0)
			if err != nil {
				return store.ElectroType{}, nil, err
			}
			return store.ElectroType{ID: id, Name: row.Get(1)}, nil, nil
		},
	}
}

// NewPositionTypeLoader loads id;name
func NewPositionTypeLoader() EntityLoader {
	return &tableLoader[store.PositionType]{
		kind:  store.KindPositionType,
		width: 2,
		mapRow: func(row *csvimport.Row) (store.PositionType, []reference, error) {
			id, err := row.Int64(0)
			if err != nil {
				return store.PositionType{}, nil, err
			}
			return store.PositionType{ID: id, Name: row.Get(1)}, nil, nil
		},
	}
}

// NewPurchaseTypeLoader loads id;name
func NewPurchaseTypeLoader() EntityLoader {
	return &tableLoader[store.PurchaseType]{
		kind:  store.KindPurchaseType,
		width: 2,
		mapRow: func(row *csvimport.Row) (store.PurchaseType, []reference, error) {
			id, err := row.Int64(0)
			if err != nil {
				return store.PurchaseType{}, nil, err
			}
			return store.PurchaseType{ID: id, Name: row.Get(1)}, nil, nil
		},
	}
}

// NewElectroItemLoader loads id;name;electroTypeId;price;count;archive;description
func NewElectroItemLoader() EntityLoader {
	return &tableLoader[store.ElectroItem]{
		kind:  store.KindElectroItem,
		width: 6,
		mapRow: func(row *csvimport.Row) (store.ElectroItem, []reference, error) {
			var item store.ElectroItem
			var err error

			if item.ID, err = row.Int64(0); err != nil {
				return item, nil, err
			}
			item.Name = row.Get(1)
			if item.ElectroTypeID, err = row.Int64(2); err != nil {
				return item, nil, err
			}
			if item.Price, err = row.Int64(3); err != nil {
				return item, nil, err
			}
			if item.Count, err = row.Int(4); err != nil {
				return item, nil, err
			}
			if item.Archive, err = row.Bool(5); err != nil {
				return item, nil, err
			}
			item.Description = row.Get(6)

			return item, []reference{
				{kind: store.KindElectroType, field: "electroTypeId", id: item.ElectroTypeID},
			}, nil
		},
	}
}

// NewEmployeeLoader loads id;lastName;firstName;patronymic;birthDate;positionId;shopId;gender.
// shopId may be empty.
func NewEmployeeLoader() EntityLoader {
	return &tableLoader[store.Employee]{
		kind:  store.KindEmployee,
		width: 8,
		mapRow: func(row *csvimport.Row) (store.Employee, []reference, error) {
			var e store.Employee
			var err error

			if e.ID, err = row.Int64(0); err != nil {
				return e, nil, err
			}
			e.LastName = row.Get(1)
			e.FirstName = row.Get(2)
			e.Patronymic = row.Get(3)
			if e.BirthDate, err = row.Date(4); err != nil {
				return e, nil, err
			}
			if e.PositionID, err = row.Int64(5); err != nil {
				return e, nil, err
			}
			if e.ShopID, err = row.OptionalInt64(6); err != nil {
				return e, nil, err
			}
			if e.Gender, err = row.Bool(7); err != nil {
				return e, nil, err
			}

			refs := []reference{{kind: store.KindPositionType, field: "positionId", id: e.PositionID}}
			if e.ShopID != nil {
				refs = append(refs, reference{kind: store.KindShop, field: "shopId", id: *e.ShopID})
			}
			return e, refs, nil
		},
	}
}

// NewPurchaseLoader loads id;electroItemId;employeeId;purchaseDate;purchaseTypeId;shopId
func NewPurchaseLoader() EntityLoader {
	return &tableLoader[store.Purchase]{
		kind:  store.KindPurchase,
		width: 6,
		mapRow: func(row *csvimport.Row) (store.Purchase, []reference, error) {
			var p store.Purchase
			var err error

			if p.ID, err = row.Int64(0); err != nil {
				return p, nil, err
			}
			if p.ElectroItemID, err = row.Int64(1); err != nil {
				return p, nil, err
			}
			if p.EmployeeID, err = row.Int64(2); err != nil {
				return p, nil, err
			}
			if p.PurchaseDate, err = row.DateTime(3); err != nil {
				return p, nil, err
			}
			if p.PurchaseTypeID, err = row.Int64(4); err != nil {
				return p, nil, err
			}
			if p.ShopID, err = row.Int64(5); err != nil {
				return p, nil, err
			}

			return p, []reference{
				{kind: store.KindElectroItem, field: "electroItemId", id: p.ElectroItemID},
				{kind: store.KindEmployee, field: "employeeId", id: p.EmployeeID},
				{kind: store.KindPurchaseType, field: "purchaseTypeId", id: p.PurchaseTypeID},
				{kind: store.KindShop, field: "shopId", id: p.ShopID},
			}, nil
		},
	}
}

// NewElectroShopLoader loads shopId;electroItemId;count
func NewElectroShopLoader() EntityLoader {
	return &tableLoader[store.ElectroShop]{
		kind:  store.KindElectroShop,
		width: 3,
		mapRow: func(row *csvimport.Row) (store.ElectroShop, []reference, error) {
			var s store.ElectroShop
			var err error

			if s.ShopID, err = row.Int64(0); err != nil {
				return s, nil, err
			}
			if s.ElectroItemID, err = row.Int64(1); err != nil {
				return s, nil, err
			}
			if s.Count, err = row.Int(2); err != nil {
				return s, nil, err
			}

			return s, []reference{
				{kind: store.KindShop, field: "shopId", id: s.ShopID},
				{kind: store.KindElectroItem, field: "electroItemId", id: s.ElectroItemID},
			}, nil
		},
	}
}

// NewElectroEmployeeLoader loads employeeId;electroTypeId
func NewElectroEmployeeLoader() EntityLoader {
	return &tableLoader[store.ElectroEmployee]{
		kind:  store.KindElectroEmployee,
		width: 2,
		mapRow: func(row *csvimport.Row) (store.ElectroEmployee, []reference, error) {
			var link store.ElectroEmployee
			var err error

			if link.EmployeeID, err = row.Int64(0); err != nil {
				return link, nil, err
			}
			if link.ElectroTypeID, err = row.Int64(1); err != nil {
				return link, nil, err
			}

			return link, []reference{
				{kind: store.KindEmployee, field: "employeeId", id: link.EmployeeID},
				{kind: store.KindElectroType, field: "electroTypeId", id: link.ElectroTypeID},
			}, nil
		},
	}
}
