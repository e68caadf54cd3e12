// Package models contains the GORM persistence models of the import backend.
// Models carry the table mappings; domain types stay free of ORM tags and are
// converted with ToDomain / FromDomain.
package models
