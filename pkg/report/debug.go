package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"instarecon/pkg/instagram"
)

// debugValueWidth keeps nested records from blowing up the table
const debugValueWidth = 80

// RenderDebug dumps every profile field except URLs, sorted by key
func RenderDebug(p instagram.Profile) string {
	var b builder

	b.line("")
	b.line("%s", lightRule)
	b.line("DEBUG INFORMATION")
	b.line("%s", lightRule)
	b.line("")
	b.line("All available fields:")

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: debugValueWidth},
	})

	for _, key := range p.Keys() {
		if strings.HasSuffix(key, "_url") {
			continue
		}
		t.AppendRow(table.Row{key, debugValue(p[key])})
	}

	b.line("%s", t.Render())
	return b.String()
}

func debugValue(v interface{}) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprint(v)
}
