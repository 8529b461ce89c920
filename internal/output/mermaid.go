package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/panbanda/modsplit/pkg/models"
)

// Mermaid renders a dependency graph as a Mermaid flowchart with one
// subgraph per suggested module. Empty modules are left out.
func Mermaid(r *models.AnalysisReport) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	ids := make(map[string]string, len(r.Functions))
	for i, fn := range r.Functions {
		ids[fn.Name] = fmt.Sprintf("f%d", i)
	}

	tags := make([]string, 0, len(r.Modules))
	for tag, names := range r.Modules {
		if len(names) > 0 {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)

	for _, tag := range tags {
		fmt.Fprintf(&b, "  subgraph %s[\"%s\"]\n", "m_"+mermaidID(tag), escapeLabel(tag))
		for _, name := range r.Modules[tag] {
			id, ok := ids[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, escapeLabel(name))
		}
		b.WriteString("  end\n")
	}

	for _, fn := range r.Functions {
		for _, dep := range fn.Dependencies {
			fmt.Fprintf(&b, "  %s --> %s\n", ids[fn.Name], ids[dep])
		}
	}
	return b.String()
}

// mermaidID reduces s to characters Mermaid accepts in an identifier.
func mermaidID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

// MermaidView is a Renderable wrapper around Mermaid.
type MermaidView struct {
	Report *models.AnalysisReport
}

func (v *MermaidView) RenderData() any {
	return map[string]string{
		"path":    v.Report.Path,
		"mermaid": Mermaid(v.Report),
	}
}

func (v *MermaidView) RenderText(w io.Writer, _ bool) error {
	_, err := io.WriteString(w, Mermaid(v.Report))
	return err
}

func (v *MermaidView) RenderMarkdown(w io.Writer) error {
	_, err := fmt.Fprintf(w, "```mermaid\n%s```\n", Mermaid(v.Report))
	return err
}
