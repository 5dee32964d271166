package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/curvesvg/pkg/geom"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// Scene rows
// =============================================================================

// sceneRow is one line of the flattened scene tree: a layer, or an element
// with its nesting depth.
type sceneRow struct {
	Depth   int
	Layer   *scene.Layer
	Element *scene.Element
}

func (r sceneRow) name() string {
	if r.Layer != nil {
		return r.Layer.Name
	}
	if r.Element.Name == "" {
		return "(unnamed)"
	}
	return r.Element.Name
}

func (r sceneRow) kind() string {
	if r.Layer != nil {
		return "layer"
	}
	return r.Element.Kind()
}

func (r sceneRow) index() int {
	if r.Layer != nil {
		return r.Layer.Index
	}
	return r.Element.Index
}

func (r sceneRow) opacity() float64 {
	if r.Layer != nil {
		return r.Layer.Opacity
	}
	return r.Element.Opacity
}

// flags lists the hidden and locked markers.
func (r sceneRow) flags() string {
	var f []string
	if r.Layer != nil {
		if !r.Layer.IsVisible {
			f = append(f, "hidden")
		}
		if r.Layer.IsLocked {
			f = append(f, "locked")
		}
	} else {
		if r.Element.IsHidden {
			f = append(f, "hidden")
		}
		if r.Element.IsLocked {
			f = append(f, "locked")
		}
	}
	return strings.Join(f, ",")
}

func (r sceneRow) hasChildren() bool {
	if r.Layer != nil {
		return len(r.Layer.Elements) > 0
	}
	return len(r.Element.Children) > 0
}

// key identifies the row for collapse state. Layer and element indices live
// in different arenas, so they are kept apart.
func (r sceneRow) key() string {
	if r.Layer != nil {
		return fmt.Sprintf("l%d", r.Layer.Index)
	}
	return fmt.Sprintf("e%d", r.Element.Index)
}

// flattenScene lists the scene in paint order. Children of rows for which
// collapsed returns true are left out.
func flattenScene(sc *scene.Scene, collapsed func(sceneRow) bool) []sceneRow {
	var rows []sceneRow
	var walk func(els []*scene.Element, depth int)
	walk = func(els []*scene.Element, depth int) {
		for _, e := range els {
			row := sceneRow{Depth: depth, Element: e}
			rows = append(rows, row)
			if collapsed == nil || !collapsed(row) {
				walk(e.Children, depth+1)
			}
		}
	}
	for i := range sc.Layers {
		row := sceneRow{Layer: &sc.Layers[i]}
		rows = append(rows, row)
		if collapsed == nil || !collapsed(row) {
			walk(sc.Layers[i].Elements, 1)
		}
	}
	return rows
}

// sceneTable renders the whole scene as a table for --plain output.
func sceneTable(sc *scene.Scene) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := flattenScene(sc, nil)

	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{
			strings.Repeat("  ", r.Depth) + r.name(),
			r.kind(),
			fmt.Sprintf("%d", r.index()),
			formatOpacity(r.opacity()),
			r.flags(),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Kind", "Index", "Opacity", "Flags").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(rows) && rows[row].Layer != nil {
				return base.Bold(true).Foreground(colorCyan)
			}
			if col > 0 {
				return base.Foreground(colorGray)
			}
			return base
		})
	return t.Render()
}

func formatOpacity(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// =============================================================================
// SceneModel - Interactive scene browser
// =============================================================================

// SceneModel is the bubbletea model for browsing a resolved scene.
type SceneModel struct {
	Scene     *scene.Scene
	Title     string
	Rows      []sceneRow
	Cursor    int
	Offset    int
	Height    int
	Collapsed map[string]bool
}

// NewSceneModel creates a browser with every group expanded.
func NewSceneModel(title string, sc *scene.Scene) SceneModel {
	m := SceneModel{
		Scene:     sc,
		Title:     title,
		Height:    15,
		Collapsed: make(map[string]bool),
	}
	m.refresh()
	return m
}

func (m *SceneModel) refresh() {
	m.Rows = flattenScene(m.Scene, func(r sceneRow) bool { return m.Collapsed[r.key()] })
	if m.Cursor >= len(m.Rows) {
		m.Cursor = max(len(m.Rows)-1, 0)
	}
}

func (m SceneModel) Init() tea.Cmd {
	return nil
}

func (m SceneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ", "right", "left", "l", "h":
			if len(m.Rows) == 0 {
				return m, nil
			}
			row := m.Rows[m.Cursor]
			if !row.hasChildren() {
				return m, nil
			}
			key := row.key()
			switch msg.String() {
			case "right", "l":
				m.Collapsed[key] = false
			case "left", "h":
				m.Collapsed[key] = true
			default:
				m.Collapsed[key] = !m.Collapsed[key]
			}
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
	}
	return m, nil
}

func (m SceneModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if r.hasChildren() {
			marker = "▾ "
			if m.Collapsed[r.key()] {
				marker = "▸ "
			}
		}
		line := fmt.Sprintf("%s%s%s%s  %s", cursor, strings.Repeat("  ", r.Depth), marker, r.name(), listDimStyle.Render(r.kind()))

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case r.flags() != "":
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Rows) > 0 {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(rowDetail(m.Rows[m.Cursor])))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

// rowDetail describes the selected row.
func rowDetail(r sceneRow) string {
	lines := []string{
		fmt.Sprintf("%s %s", StyleValue.Render(r.name()), listDimStyle.Render(r.kind())),
		fmt.Sprintf("index %d  opacity %s", r.index(), formatOpacity(r.opacity())),
	}
	if f := r.flags(); f != "" {
		lines = append(lines, f)
	}
	if r.Layer != nil {
		lines = append(lines, plural(len(r.Layer.Elements), "element"))
		return strings.Join(lines, "\n")
	}

	e := r.Element
	if e.Transform != nil && !e.Transform.IsIdentity() {
		t := e.Transform
		lines = append(lines, fmt.Sprintf("transform: translate %.4g,%.4g  rotate %.4g°  scale %.4g,%.4g",
			t.Translation.X, t.Translation.Y, geom.Degrees(t.Rotation), t.Scale.X, t.Scale.Y))
	}
	switch c := e.Content.(type) {
	case scene.PathContent:
		nodes := 0
		for _, g := range c.Geometries {
			nodes += len(g.Nodes)
		}
		lines = append(lines, fmt.Sprintf("%s, %s", plural(len(c.Geometries), "contour"), plural(nodes, "node")))
	case scene.ImageContent:
		lines = append(lines, fmt.Sprintf("%d bytes", len(c.Data)))
	case scene.TextContent:
		lines = append(lines, fmt.Sprintf("%d bytes of text payload", len(c.Payload)))
	}
	if e.IsGroup {
		if n := len(e.Children); n == 1 {
			lines = append(lines, "1 child")
		} else {
			lines = append(lines, fmt.Sprintf("%d children", n))
		}
	}
	return strings.Join(lines, "\n")
}
