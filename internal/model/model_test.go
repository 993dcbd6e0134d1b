package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrincipalType(t *testing.T) {
	tests := []struct {
		in      string
		want    PrincipalType
		wantErr bool
	}{
		{in: "person", want: PrincipalPerson},
		{in: "User", want: PrincipalPerson},
		{in: " resource ", want: PrincipalResource},
		{in: "GROUP", want: PrincipalGroup},
		{in: "room", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrincipalType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrincipalTypeString(t *testing.T) {
	assert.Equal(t, "person", PrincipalPerson.String())
	assert.Equal(t, "resource", PrincipalResource.String())
	assert.Equal(t, "group", PrincipalGroup.String())
	assert.Equal(t, "type-9", PrincipalType(9).String())
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "calendar", Collection{Path: "/alice/calendar/"}.Name())
	assert.Equal(t, "alice", Collection{Path: "/alice/"}.Name())
	assert.Equal(t, "", Collection{}.Name())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindCalendar, KindOf(true, false))
	assert.Equal(t, KindAddressbook, KindOf(false, true))
	assert.Equal(t, KindPlain, KindOf(false, false))
	assert.Equal(t, ResourceTypesAddressbook, KindAddressbook.ResourceTypes())
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/alice/", UserPath("alice"))
	assert.Equal(t, "/alice/work/", CollectionPath("alice", "work"))
}

func TestUserDetailsIsAdmin(t *testing.T) {
	assert.True(t, UserDetails{Roles: []string{"Group", "Admin"}}.IsAdmin())
	assert.False(t, UserDetails{Roles: []string{"Group"}}.IsAdmin())
}

func TestGrantTarget(t *testing.T) {
	assert.Equal(t, "/alice/", Grant{Owner: "alice"}.Target())
	assert.Equal(t, "/alice/work/", Grant{Owner: "alice", Collection: "/alice/work/"}.Target())
}

func TestSchemaRevisionString(t *testing.T) {
	assert.Equal(t, "1.3.5", SchemaRevision{Major: 1, Minor: 3, Patch: 5}.String())
}
