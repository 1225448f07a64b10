package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
)

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func renderMarker(buf *bytes.Buffer, m Marker, color string) {
	r := 3.0
	if m.Kind == MarkerPivot {
		r = 4.5
	}
	fmt.Fprintf(buf, `  <circle class="marker marker-%s" cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
		m.Kind, m.At.X, m.At.Y, r, EscapeXML(color))
	if m.Label != "" {
		fmt.Fprintf(buf, `  <text class="marker-label" x="%.2f" y="%.2f" font-family="monospace" font-size="9" fill="%s">%s</text>`+"\n",
			m.At.X+6, m.At.Y-6, EscapeXML(color), EscapeXML(m.Label))
	}
}

// registry maps style names to constructors.
var registry = map[string]func() Style{
	"simple":    func() Style { return Simple{} },
	"blueprint": func() Style { return Blueprint{} },
	"handdrawn": func() Style { return Handdrawn{} },
}

// Lookup returns the named style.
func Lookup(name string) (Style, bool) {
	ctor, ok := registry[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Names lists the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
