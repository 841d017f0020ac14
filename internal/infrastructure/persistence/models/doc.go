// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer carries no ORM tags;
// each model converts with ToDomain / FromDomain.
//
// The schema itself is owned by the SQL migrations; these models only describe
// the columns the repositories read and write.
package models
