package plan

import (
	"testing"

	"resume-tailor/internal/model"
)

func TestFindAnchor(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		anchor    string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{name: "Exact", line: "Built dashboards using Tableau", anchor: "Tableau", wantStart: 23, wantEnd: 30, wantOK: true},
		{name: "Case insensitive", line: "Built dashboards using Tableau", anchor: "tableau", wantStart: 23, wantEnd: 30, wantOK: true},
		{name: "Whitespace drift", line: "data  analysis  reports", anchor: "data analysis", wantStart: 0, wantEnd: 14, wantOK: true},
		{name: "Missing", line: "Built dashboards", anchor: "Tableau", wantOK: false},
		{name: "Empty anchor", line: "Built dashboards", anchor: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := findAnchor(tt.line, tt.anchor)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("range = [%d,%d), want [%d,%d)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBuildEditedLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		c    model.EditCandidate
		want string
	}{
		{
			name: "Modifier before anchor",
			line: "Led project management for the team",
			c:    model.EditCandidate{Strategy: model.StrategyModifier, Anchor: "project management", Insertion: "Agile"},
			want: "Led Agile project management for the team",
		},
		{
			name: "Parenthetical after anchor",
			line: "Built services in Python for analytics",
			c:    model.EditCandidate{Strategy: model.StrategyParenthetical, Anchor: "Python", Insertion: "with Django"},
			want: "Built services in Python (with Django) for analytics",
		},
		{
			name: "Parenthetical already wrapped",
			line: "Built services in Python",
			c:    model.EditCandidate{Strategy: model.StrategyParenthetical, Anchor: "Python", Insertion: "(with Django)"},
			want: "Built services in Python (with Django)",
		},
		{
			name: "Tail appends with comma",
			line: "Performed data analysis",
			c:    model.EditCandidate{Strategy: model.StrategyTail, Anchor: "data analysis", Insertion: "Python"},
			want: "Performed data analysis, Python",
		},
		{
			name: "Tail keeps existing comma",
			line: "Built dashboards using Tableau",
			c:    model.EditCandidate{Strategy: model.StrategyTail, Anchor: "Tableau", Insertion: ", and Power BI"},
			want: "Built dashboards using Tableau, and Power BI",
		},
		{
			name: "Tail trims trailing spaces first",
			line: "Performed data analysis  ",
			c:    model.EditCandidate{Strategy: model.StrategyTail, Anchor: "analysis", Insertion: "Python"},
			want: "Performed data analysis, Python",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := buildEditedLine(tt.line, tt.c)
			if !ok {
				t.Fatalf("buildEditedLine failed to anchor")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Anchor missing", func(t *testing.T) {
		_, ok := buildEditedLine("no match here", model.EditCandidate{Strategy: model.StrategyTail, Anchor: "Tableau", Insertion: "x"})
		if ok {
			t.Errorf("expected anchoring to fail")
		}
	})
}
