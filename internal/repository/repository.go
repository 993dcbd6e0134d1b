// Package repository contains data access abstractions over the DAViCal
// tables. Implementations live in subpackages (postgres) and hold no
// business rules: a missing row is reported as sql.ErrNoRows and the
// service layer decides what that means.
package repository
