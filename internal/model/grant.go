package model

import (
	"fmt"
	"time"
)

// Grant is a row of DAViCal's grants table. Exactly one of ByPrincipal and
// ByCollection is set: a principal grant covers the owner's whole namespace,
// a collection grant covers one collection.
type Grant struct {
	ByPrincipal  *int64 `json:"by_principal,omitempty" yaml:"by_principal,omitempty"`
	ByCollection *int64 `json:"by_collection,omitempty" yaml:"by_collection,omitempty"`
	ToPrincipal  int64  `json:"to_principal" yaml:"to_principal"`
	Privileges   uint32 `json:"privileges" yaml:"privileges"`
	IsGroup      bool   `json:"is_group" yaml:"is_group"`

	// Resolved names, filled when listing.
	Owner      string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Grantee    string `json:"grantee,omitempty" yaml:"grantee,omitempty"`
}

// Target is the path the grant applies to.
func (g Grant) Target() string {
	if g.Collection != "" {
		return g.Collection
	}
	return UserPath(g.Owner)
}

// SchemaRevision is the newest row of awl_db_revision.
type SchemaRevision struct {
	Major     int       `json:"schema_major" yaml:"schema_major"`
	Minor     int       `json:"schema_minor" yaml:"schema_minor"`
	Patch     int       `json:"schema_patch" yaml:"schema_patch"`
	Name      string    `json:"schema_name" yaml:"schema_name"`
	AppliedOn time.Time `json:"applied_on" yaml:"applied_on"`
}

// String formats the revision the way DAViCal reports it, e.g. "1.3.5".
func (r SchemaRevision) String() string {
	return fmt.Sprintf("%d.%d.%d", r.Major, r.Minor, r.Patch)
}
