package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/output"
	"github.com/ledeuns/davical-cmdlnut/internal/privilege"
	"github.com/ledeuns/davical-cmdlnut/internal/service"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func renderUsers(r *output.Renderer, users []model.User) error {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		joined := u.Joined
		rows = append(rows, []string{
			u.Username,
			u.Fullname,
			u.Email,
			u.Type.String(),
			yesNo(u.Active),
			formatDate(&joined),
			formatDate(u.LastUsed),
		})
	}
	if users == nil {
		users = []model.User{}
	}
	return r.Render([]string{"USERNAME", "FULLNAME", "EMAIL", "TYPE", "ACTIVE", "JOINED", "LAST USED"}, rows, users)
}

func renderUserDetails(r *output.Renderer, d *model.UserDetails) error {
	u := d.User
	groups := make([]string, 0, len(d.Groups))
	for _, g := range d.Groups {
		groups = append(groups, g.Username)
	}
	cols := make([]string, 0, len(d.Collections))
	for _, c := range d.Collections {
		cols = append(cols, c.Path)
	}
	joined := u.Joined
	pairs := [][2]string{
		{"Username", u.Username},
		{"Fullname", u.Fullname},
		{"Email", u.Email},
		{"Type", u.Type.String()},
		{"Active", yesNo(u.Active)},
		{"Admin", yesNo(d.IsAdmin())},
		{"User no", strconv.FormatInt(u.UserNo, 10)},
		{"Principal id", strconv.FormatInt(u.PrincipalID, 10)},
		{"Joined", formatDate(&joined)},
		{"Updated", formatDate(u.Updated)},
		{"Last used", formatDate(u.LastUsed)},
		{"Roles", strings.Join(d.Roles, ", ")},
		{"Groups", strings.Join(groups, ", ")},
		{"Collections", strings.Join(cols, ", ")},
	}
	return r.KeyValues(pairs, d)
}

func renderCollections(r *output.Renderer, cols []model.Collection) error {
	rows := make([][]string, 0, len(cols))
	for _, c := range cols {
		created := c.Created
		rows = append(rows, []string{c.Name(), c.Path, c.DisplayName, string(c.Kind), formatDate(&created)})
	}
	if cols == nil {
		cols = []model.Collection{}
	}
	return r.Render([]string{"NAME", "PATH", "DISPLAYNAME", "KIND", "CREATED"}, rows, cols)
}

func renderMembers(r *output.Renderer, members []model.User) error {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.Username, m.Fullname, m.Type.String(), yesNo(m.Active)})
	}
	if members == nil {
		members = []model.User{}
	}
	return r.Render([]string{"MEMBER", "FULLNAME", "TYPE", "ACTIVE"}, rows, members)
}

func renderGrants(r *output.Renderer, l *service.GrantList) error {
	var rows [][]string
	for _, g := range l.Held {
		rows = append(rows, []string{"held", g.Grantee, g.Target(), privilege.Mask(g.Privileges).String()})
	}
	for _, g := range l.Given {
		rows = append(rows, []string{"given", g.Grantee, g.Target(), privilege.Mask(g.Privileges).String()})
	}
	return r.Render([]string{"DIRECTION", "GRANTEE", "TARGET", "PRIVILEGES"}, rows, l)
}
