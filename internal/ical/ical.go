// Package ical assembles collection exports from the raw iCalendar and vCard
// text DAViCal keeps in caldav_data.
package ical

import "strings"

const crlf = "\r\n"

// MergeCalendars combines VCALENDAR objects into one VCALENDAR.
// Calendar-level properties of the inputs are replaced by a single header.
// Time zones are written once per TZID, ahead of the other components,
// which keep their input order. Folded lines stay folded.
func MergeCalendars(prodID string, objects []string) string {
	var (
		zones     []string
		seenZones = map[string]bool{}
		comps     []string
	)

	for _, obj := range objects {
		for _, c := range components(obj) {
			if c.name == "VTIMEZONE" {
				if c.tzid != "" && seenZones[c.tzid] {
					continue
				}
				seenZones[c.tzid] = true
				zones = append(zones, c.text)
				continue
			}
			comps = append(comps, c.text)
		}
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR" + crlf)
	b.WriteString("VERSION:2.0" + crlf)
	b.WriteString("PRODID:" + prodID + crlf)
	b.WriteString("CALSCALE:GREGORIAN" + crlf)
	for _, z := range zones {
		b.WriteString(z)
	}
	for _, c := range comps {
		b.WriteString(c)
	}
	b.WriteString("END:VCALENDAR" + crlf)
	return b.String()
}

// ConcatCards joins vCards with CRLF line endings.
func ConcatCards(objects []string) string {
	var b strings.Builder
	for _, obj := range objects {
		for _, l := range splitLines(obj) {
			b.WriteString(l + crlf)
		}
	}
	return b.String()
}

type component struct {
	name string
	tzid string
	text string
}

// components returns the direct children of every VCALENDAR in obj.
func components(obj string) []component {
	var (
		out   []component
		cur   *component
		buf   strings.Builder
		depth int
	)
	for _, line := range splitLines(obj) {
		name, value := property(line)
		continuation := len(line) > 0 && (line[0] == ' ' || line[0] == '\t')

		switch {
		case !continuation && name == "BEGIN":
			depth++
			if depth == 2 {
				cur = &component{name: strings.ToUpper(value)}
				buf.Reset()
			}
		case !continuation && name == "END":
			if depth == 2 && cur != nil {
				buf.WriteString(line + crlf)
				cur.text = buf.String()
				out = append(out, *cur)
				cur = nil
				depth--
				continue
			}
			depth--
		}

		if depth >= 2 && cur != nil {
			buf.WriteString(line + crlf)
			if depth == 2 && !continuation && name == "TZID" && cur.tzid == "" {
				cur.tzid = value
			}
		}
	}
	return out
}

func property(line string) (name, value string) {
	i := strings.IndexAny(line, ":;")
	if i < 0 {
		return strings.ToUpper(line), ""
	}
	name = strings.ToUpper(line[:i])
	if j := strings.IndexByte(line, ':'); j >= 0 {
		value = line[j+1:]
	}
	return name, value
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
