package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	"github.com/matzehuels/cosmicscale/pkg/viewer"
)

// =============================================================================
// ExploreModel - Interactive terminal zoom
// =============================================================================

// ExploreModel is the bubbletea model for the explore command. Every key
// press maps to a viewer.Input and steps the frame once.
type ExploreModel struct {
	ctx     context.Context
	frame   *scale.Frame
	zoom    viewer.Zoom
	current float64
	all     bool
	err     error
}

// NewExploreModel creates the model and evaluates the starting exponent.
func NewExploreModel(ctx context.Context, frame *scale.Frame, zoom viewer.Zoom, start float64) (ExploreModel, error) {
	m := ExploreModel{ctx: ctx, frame: frame, zoom: zoom, current: zoom.Clamp(start)}
	if _, err := frame.Step(ctx, m.current); err != nil {
		return m, err
	}
	return m, nil
}

// Current returns the exponent the model is showing.
func (m ExploreModel) Current() float64 { return m.current }

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var in viewer.Input
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			in.Out = true
		case "left", "h":
			in.In = true
		case "shift+right", "L":
			in.Out, in.Coarse = true, true
		case "shift+left", "H":
			in.In, in.Coarse = true, true
		case "home", "g":
			in.Home = true
		case "end", "G":
			in.End = true
		case "a":
			m.all = !m.all
			return m, nil
		default:
			return m, nil
		}
		m.current = m.zoom.Apply(m.current, in)
		_, m.err = m.frame.Step(m.ctx, m.current)
	case tea.MouseMsg:
		var in viewer.Input
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			in.Wheel = 1
		case tea.MouseButtonWheelDown:
			in.Wheel = -1
		default:
			return m, nil
		}
		m.current = m.zoom.Apply(m.current, in)
		_, m.err = m.frame.Step(m.ctx, m.current)
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cosmic Scale"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ zoom  shift faster  home/end jump  a all  q quit"))
	b.WriteString("\n\n")

	res := m.frame.Last()
	if res == nil {
		return b.String()
	}
	b.WriteString(renderHUD(res))
	b.WriteString("\n\n")
	b.WriteString(stateTable(res, !m.all))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d visible]", res.VisibleCount(), len(res.States))))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  frame skipped: %v", m.err)))
	}
	return b.String()
}
