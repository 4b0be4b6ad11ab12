// Package models contains GORM persistence models for records whose domain
// type carries behaviour, such as the import history.
//
// Store records (shops, items, purchases, stock) are flat rows and are mapped
// directly on their domain types; they are not mirrored here.
//
// Mappers convert between domain entities and persistence models:
//   - ToDomain builds the domain entity from a loaded row
//   - FromDomain populates the model before a write
package models
