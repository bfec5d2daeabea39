package mindmap

import (
	"fmt"
	"strings"
)

// Theme is the colour set applied to one render.
type Theme struct {
	Name       string
	Background string
	Font       string
	RootFill   string
	MainFill   string
	SubFill    string
	Edge       string
	NodeFont   string // label colour inside the filled boxes
}

var (
	darkTheme = Theme{
		Name:       "dark",
		Background: "#121212",
		Font:       "white",
		RootFill:   "#6A5ACD", // slate blue
		MainFill:   "#DAA520", // goldenrod
		SubFill:    "#2E8B57", // sea green
		Edge:       "#FFFFFF",
		NodeFont:   "white",
	}
	lightTheme = Theme{
		Name:       "light",
		Background: "#FFFFFF",
		Font:       "black",
		RootFill:   "#4B0082", // indigo
		MainFill:   "#FF8C00", // dark orange
		SubFill:    "#228B22", // forest green
		Edge:       "#000000",
		NodeFont:   "white",
	}
)

// ThemeFor returns the dark or light theme.
func ThemeFor(dark bool) Theme {
	if dark {
		return darkTheme
	}
	return lightTheme
}

// ParseTheme accepts "dark" or "light" (case-insensitive).
func ParseTheme(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return darkTheme, nil
	case "light", "":
		return lightTheme, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (valid: dark, light)", name)
	}
}

// Dark reports whether t is the dark theme.
func (t Theme) Dark() bool { return t.Name == darkTheme.Name }
