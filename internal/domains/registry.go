package domains

import (
	"fmt"
	"strings"

	"fedadmin/internal/engine"
)

// Names lists the domains in tab order.
var Names = []string{"users", "courts", "tournaments", "microsites"}

// Info is the type-erased part of an adapter, for code that does not care
// about the entity type.
type Info struct {
	Name             string
	Title            string
	Resource         string
	Fields           []string
	RecipientClasses []string
}

// Lookup returns the description of the named domain.
func Lookup(name string) (Info, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "users":
		return info(Users()), nil
	case "courts":
		return info(Courts()), nil
	case "tournaments":
		return info(Tournaments()), nil
	case "microsites":
		return info(Microsites()), nil
	default:
		return Info{}, fmt.Errorf("unknown domain %q (known: %s)", name, strings.Join(Names, ", "))
	}
}

// IndexOf returns the tab position of name, or -1.
func IndexOf(name string) int {
	for i, n := range Names {
		if n == name {
			return i
		}
	}
	return -1
}

func info[T engine.Entity](a Adapter[T]) Info {
	return Info{
		Name:             a.Name,
		Title:            a.Title,
		Resource:         a.Resource,
		Fields:           append([]string(nil), a.Fields...),
		RecipientClasses: append([]string(nil), a.RecipientClasses...),
	}
}
