package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/panbanda/modsplit/pkg/models"
)

func TestMermaid(t *testing.T) {
	got := Mermaid(sampleReport())

	want := strings.Join([]string{
		"graph LR",
		`  subgraph m_core["core"]`,
		`    f0["init"]`,
		"  end",
		`  subgraph m_data["data"]`,
		`    f2["save"]`,
		"  end",
		`  subgraph m_ui["ui"]`,
		`    f1["render"]`,
		"  end",
		"  f0 --> f1",
		"  f0 --> f2",
		"",
	}, "\n")

	if got != want {
		t.Errorf("Mermaid() =\n%s\nwant\n%s", got, want)
	}
}

func TestMermaidEscapes(t *testing.T) {
	r := &models.AnalysisReport{
		Functions: []models.Function{{Name: "$init"}},
		Modules:   map[string][]string{"state-mgmt": {"$init"}},
	}
	got := Mermaid(r)
	if !strings.Contains(got, `subgraph m_state_mgmt["state-mgmt"]`) {
		t.Errorf("module id not sanitized:\n%s", got)
	}
	if !strings.Contains(got, `f0["$init"]`) {
		t.Errorf("function label missing:\n%s", got)
	}
}

func TestMermaidEmpty(t *testing.T) {
	got := Mermaid(&models.AnalysisReport{})
	if got != "graph LR\n" {
		t.Errorf("Mermaid() = %q, want %q", got, "graph LR\n")
	}
}

func TestMermaidView(t *testing.T) {
	v := &MermaidView{Report: sampleReport()}

	var md bytes.Buffer
	if err := v.RenderMarkdown(&md); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	if !strings.HasPrefix(md.String(), "```mermaid\ngraph LR\n") || !strings.HasSuffix(md.String(), "```\n") {
		t.Errorf("RenderMarkdown() = %q", md.String())
	}

	data, ok := v.RenderData().(map[string]string)
	if !ok || data["path"] != "app.js" || !strings.HasPrefix(data["mermaid"], "graph LR") {
		t.Errorf("RenderData() = %v", v.RenderData())
	}
}
