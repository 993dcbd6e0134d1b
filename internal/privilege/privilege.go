// Package privilege converts between DAViCal privilege names and the 24-bit
// masks stored in grants.privileges and principal.default_privileges.
package privilege

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Mask is a set of privileges.
type Mask uint32

const (
	WriteProperties             Mask = 2
	WriteContent                Mask = 4
	Unlock                      Mask = 8
	ReadACL                     Mask = 16
	ReadCurrentUserPrivilegeSet Mask = 32
	Bind                        Mask = 64
	Unbind                      Mask = 128
	WriteACL                    Mask = 256
	ScheduleDeliverInvite       Mask = 1024
	ScheduleDeliverReply        Mask = 2048
	ScheduleQueryFreebusy       Mask = 4096
	ScheduleSendInvite          Mask = 8192
	ScheduleSendReply           Mask = 16384
	ScheduleSendFreebusy        Mask = 32768

	Read            Mask = 4609  // 1 + 512 + 4096
	Write           Mask = 198   // write-properties, write-content, bind, unbind
	ReadFreeBusy    Mask = 4608  // 512 + 4096
	ScheduleDeliver Mask = 7168  // deliver-invite, deliver-reply, query-freebusy
	ScheduleSend    Mask = 57344 // send-invite, send-reply, send-freebusy

	All Mask = 1<<24 - 1
)

type named struct {
	name string
	mask Mask
}

// Aggregates come before the privileges they contain so Names prefers them.
var ordered = []named{
	{"all", All},
	{"read", Read},
	{"write", Write},
	{"schedule-deliver", ScheduleDeliver},
	{"schedule-send", ScheduleSend},
	{"read-free-busy", ReadFreeBusy},
	{"write-properties", WriteProperties},
	{"write-content", WriteContent},
	{"unlock", Unlock},
	{"read-acl", ReadACL},
	{"read-current-user-privilege-set", ReadCurrentUserPrivilegeSet},
	{"bind", Bind},
	{"unbind", Unbind},
	{"write-acl", WriteACL},
	{"schedule-deliver-invite", ScheduleDeliverInvite},
	{"schedule-deliver-reply", ScheduleDeliverReply},
	{"schedule-query-freebusy", ScheduleQueryFreebusy},
	{"schedule-send-invite", ScheduleSendInvite},
	{"schedule-send-reply", ScheduleSendReply},
	{"schedule-send-freebusy", ScheduleSendFreebusy},
}

var byName = func() map[string]Mask {
	m := make(map[string]Mask, len(ordered))
	for _, n := range ordered {
		m[n.name] = n.mask
	}
	return m
}()

// Parse reads a comma or space separated list of privilege names.
// Names may carry a DAV: prefix and are matched case-insensitively. A "0x"
// token adds raw bits, as printed by String for bits without a name.
func Parse(s string) (Mask, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return 0, fmt.Errorf("no privileges given")
	}
	var m Mask
	for _, f := range fields {
		name := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(f, "DAV:"), "dav:"))
		if hex, ok := strings.CutPrefix(name, "0x"); ok {
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || Mask(v)&^All != 0 {
				return 0, fmt.Errorf("invalid privilege bits %q", f)
			}
			m |= Mask(v)
			continue
		}
		v, ok := byName[name]
		if !ok {
			return 0, fmt.Errorf("unknown privilege %q", f)
		}
		m |= v
	}
	return m, nil
}

// Names returns the smallest readable set of names covering m. Bits no name
// covers are appended as one hex token such as "0x000200".
func (m Mask) Names() []string {
	m &= All
	if m == 0 {
		return nil
	}
	var (
		out     []string
		covered Mask
	)
	for _, n := range ordered {
		if m&n.mask == n.mask && n.mask&^covered != 0 {
			out = append(out, n.name)
			covered |= n.mask
		}
	}
	if rest := m &^ covered; rest != 0 {
		out = append(out, fmt.Sprintf("0x%06x", uint32(rest)))
	}
	return out
}

// String joins Names with commas; an empty mask prints as "none".
func (m Mask) String() string {
	names := m.Names()
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Bits renders the mask as the 24 character string PostgreSQL prints for bit(24).
func (m Mask) Bits() string {
	return fmt.Sprintf("%024b", uint32(m&All))
}

// Known returns every privilege name, sorted.
func Known() []string {
	out := make([]string, 0, len(ordered))
	for _, n := range ordered {
		out = append(out, n.name)
	}
	sort.Strings(out)
	return out
}

// FromBits parses a bit(24) string as printed by PostgreSQL.
func FromBits(s string) (Mask, error) {
	if len(s) != 24 {
		return 0, fmt.Errorf("privilege bits %q: want 24 digits", s)
	}
	v, err := strconv.ParseUint(s, 2, 32)
	if err != nil {
		return 0, fmt.Errorf("privilege bits %q: %w", s, err)
	}
	return Mask(v), nil
}
