package form

import (
	"net/url"
	"strconv"
	"strings"
)

// ActionField is the name of the submit button value that selects an action.
const ActionField = "action"

// Row actions on repeated-row forms.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Action is the button a form was submitted with: "add", "remove:2", or a
// page-specific name. The zero Action is a plain continue.
type Action struct {
	Name  string
	Index int
}

// ParseAction reads the action button from submitted values.
func ParseAction(values url.Values) Action {
	raw := strings.TrimSpace(values.Get(ActionField))
	if raw == "" {
		return Action{}
	}
	name, idx, ok := strings.Cut(raw, ":")
	if !ok {
		return Action{Name: name}
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return Action{Name: name, Index: -1}
	}
	return Action{Name: name, Index: n}
}

// IsContinue reports whether no action button was pressed.
func (a Action) IsContinue() bool {
	return a.Name == ""
}

// IsRowAction reports whether the action edits the row list.
func (a Action) IsRowAction() bool {
	return a.Name == ActionAdd || a.Name == ActionRemove
}

func (a Action) String() string {
	if a.Name == ActionRemove {
		return a.Name + ":" + strconv.Itoa(a.Index)
	}
	return a.Name
}

// ApplyRowAction adds a blank row or splices out the selected one. Other
// actions, and removals of rows that do not exist, leave rows unchanged.
func ApplyRowAction[T any](rows []T, a Action) []T {
	switch a.Name {
	case ActionAdd:
		var blank T
		return append(rows, blank)
	case ActionRemove:
		if a.Index < 0 || a.Index >= len(rows) {
			return rows
		}
		out := make([]T, 0, len(rows)-1)
		out = append(out, rows[:a.Index]...)
		return append(out, rows[a.Index+1:]...)
	}
	return rows
}

// Blanker is implemented by row types that can tell a row nobody filled in.
type Blanker interface {
	Blank() bool
}

// Compact drops blank rows. A submission made only of blank rows yields nil,
// the same as submitting no rows at all.
func Compact[T Blanker](rows []T) []T {
	var out []T
	for _, r := range rows {
		if !r.Blank() {
			out = append(out, r)
		}
	}
	return out
}
