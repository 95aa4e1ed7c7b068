// Package models contains the GORM models for the lot tables. Domain types
// in internal/domain/lot stay free of ORM tags; repositories convert at the
// boundary with ToDomain and the *FromDomain constructors.
package models
