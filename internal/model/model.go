// Package model contains the DAViCal rows the utility reads and writes.
// Types carry no persistence code; repositories map them to SQL.
package model
