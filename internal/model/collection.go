package model

import (
	"strings"
	"time"
)

// CollectionKind distinguishes calendars from addressbooks.
type CollectionKind string

const (
	KindCalendar    CollectionKind = "calendar"
	KindAddressbook CollectionKind = "addressbook"
	KindPlain       CollectionKind = "collection"
)

// Resource types DAViCal stores for each kind of collection.
const (
	ResourceTypesCalendar    = "<DAV::collection/><urn:ietf:params:xml:ns:caldav:calendar/>"
	ResourceTypesAddressbook = "<DAV::collection/><urn:ietf:params:xml:ns:carddav:addressbook/>"
	ResourceTypesPlain       = "<DAV::collection/>"
)

// Collection is a row of DAViCal's collection table.
type Collection struct {
	ID              int64          `json:"collection_id" yaml:"collection_id"`
	UserNo          int64          `json:"user_no" yaml:"user_no"`
	Path            string         `json:"dav_name" yaml:"dav_name"`
	ParentContainer string         `json:"parent_container" yaml:"parent_container"`
	DisplayName     string         `json:"displayname" yaml:"displayname"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty"`
	Kind            CollectionKind `json:"kind" yaml:"kind"`
	ETag            string         `json:"etag" yaml:"etag"`
	Created         time.Time      `json:"created" yaml:"created"`
	Modified        time.Time      `json:"modified" yaml:"modified"`
}

// Name is the last segment of the collection path.
func (c Collection) Name() string {
	p := strings.Trim(c.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ResourceTypes returns the resourcetypes value for the collection kind.
func (k CollectionKind) ResourceTypes() string {
	switch k {
	case KindCalendar:
		return ResourceTypesCalendar
	case KindAddressbook:
		return ResourceTypesAddressbook
	default:
		return ResourceTypesPlain
	}
}

// KindOf derives the kind from DAViCal's is_calendar / is_addressbook flags.
func KindOf(isCalendar, isAddressbook bool) CollectionKind {
	switch {
	case isCalendar:
		return KindCalendar
	case isAddressbook:
		return KindAddressbook
	default:
		return KindPlain
	}
}

// UserPath returns the principal's home path, "/<username>/".
func UserPath(username string) string {
	return "/" + username + "/"
}

// CollectionPath returns "/<username>/<name>/".
func CollectionPath(username, name string) string {
	return "/" + username + "/" + name + "/"
}

// CollectionObject is one stored resource of a collection (caldav_data row).
type CollectionObject struct {
	Path string `json:"dav_name" yaml:"dav_name"`
	Type string `json:"caldav_type" yaml:"caldav_type"`
	Data string `json:"-" yaml:"-"`
}
