package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/curvesvg/pkg/scene"
)

func testScene() *scene.Scene {
	return &scene.Scene{Layers: []scene.Layer{{
		Index:     0,
		Name:      "Layer 1",
		Opacity:   1,
		IsVisible: true,
		Elements: []*scene.Element{
			{Index: 0, Name: "Group", IsGroup: true, Opacity: 1, Children: []*scene.Element{
				{Index: 1, Name: "Child", Opacity: 0.5, Content: scene.PathContent{}},
			}},
			{Index: 2, Opacity: 1, IsHidden: true},
		},
	}}}
}

func TestFlattenScene(t *testing.T) {
	rows := flattenScene(testScene(), nil)

	want := []struct {
		name  string
		kind  string
		depth int
	}{
		{"Layer 1", "layer", 0},
		{"Group", "group", 1},
		{"Child", "path", 2},
		{"(unnamed)", "empty", 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i].name() != w.name || rows[i].kind() != w.kind || rows[i].Depth != w.depth {
			t.Errorf("row %d = %s/%s/%d, want %s/%s/%d",
				i, rows[i].name(), rows[i].kind(), rows[i].Depth, w.name, w.kind, w.depth)
		}
	}
	if got := rows[3].flags(); got != "hidden" {
		t.Errorf("flags = %q, want hidden", got)
	}
}

func TestSceneModelNavigation(t *testing.T) {
	m := NewSceneModel("logo.curve", testScene())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor)
	}

	// Collapse the group.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.Rows) != 3 {
		t.Errorf("rows after collapse = %d, want 3", len(m.Rows))
	}
	if !strings.Contains(m.View(), "▸ Group") {
		t.Errorf("collapsed group should show a closed marker:\n%s", m.View())
	}

	// Expand it again.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if len(m.Rows) != 4 {
		t.Errorf("rows after expand = %d, want 4", len(m.Rows))
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 0 {
		t.Errorf("cursor should stop at 0, got %d", m.Cursor)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestSceneModelCollapseClampsCursor(t *testing.T) {
	m := NewSceneModel("logo.curve", testScene())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if len(m.Rows) != 1 {
		t.Fatalf("collapsed layer should leave one row, got %d", len(m.Rows))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
}

func TestRowDetail(t *testing.T) {
	rows := flattenScene(testScene(), nil)

	if got := rowDetail(rows[1]); !strings.Contains(got, "1 child") {
		t.Errorf("group detail = %q", got)
	}
	if got := rowDetail(rows[2]); !strings.Contains(got, "50%") || !strings.Contains(got, "0 contours") {
		t.Errorf("path detail = %q", got)
	}
}

func TestSceneTable(t *testing.T) {
	out := sceneTable(testScene())
	for _, want := range []string{"Name", "Layer 1", "Group", "Child", "hidden", "50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func update(t *testing.T, m SceneModel, msg tea.Msg) SceneModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SceneModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm
}
