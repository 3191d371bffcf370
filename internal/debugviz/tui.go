package debugviz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/voxel"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
	colorYellow = lipgloss.Color("220")

	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleBar   = lipgloss.NewStyle().Foreground(colorYellow)
	styleFrame = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Schematic slice viewer (redhdl display)
// =============================================================================

// SliceViewModel is a bubbletea Model rendering one Y layer of an assembled
// schematic at a time; up/down arrows step the layer, q/ctrl+c quit.
type SliceViewModel struct {
	Schem   voxel.Schematic
	BBox    geom.Box
	Layer   int
	Summary string
}

// NewSliceView builds a SliceViewModel positioned at the schematic's lowest
// occupied layer. nl is optional; when given, its summary is shown above
// the slice.
func NewSliceView(schem voxel.Schematic, nl *netlist.Netlist) SliceViewModel {
	bb := schem.BBox()
	m := SliceViewModel{Schem: schem, BBox: bb, Layer: bb.Min.Y}
	if nl != nil {
		m.Summary = summarizeNetlist(nl)
	}
	return m
}

func (m SliceViewModel) Init() tea.Cmd {
	return nil
}

func (m SliceViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Layer < m.BBox.Max.Y {
				m.Layer++
			}
		case "down", "j":
			if m.Layer > m.BBox.Min.Y {
				m.Layer--
			}
		}
	}
	return m, nil
}

func (m SliceViewModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", styleTitle.Render("schematic slice"),
		styleDim.Render(fmt.Sprintf("y=%d (%d..%d)", m.Layer, m.BBox.Min.Y, m.BBox.Max.Y)))
	if m.Summary != "" {
		fmt.Fprintf(&b, "%s\n", styleDim.Render(m.Summary))
	}

	for z := m.BBox.Min.Z; z <= m.BBox.Max.Z; z++ {
		var row strings.Builder
		for x := m.BBox.Min.X; x <= m.BBox.Max.X; x++ {
			block, ok := m.Schem.Get(geom.Pos{X: x, Y: m.Layer, Z: z})
			if !ok {
				row.WriteString(styleFrame.Render("."))
				continue
			}
			row.WriteString(styleValue.Render(layerGlyph(block.Kind)))
		}
		b.WriteString(row.String())
		b.WriteString("\n")
	}

	b.WriteString(styleDim.Render("↑/↓ change layer · q to quit"))
	return b.String()
}

// layerGlyph picks a single-character glyph for a block kind, falling back
// to its first letter for kinds outside the small curated set.
func layerGlyph(kind string) string {
	switch kind {
	case "minecraft:redstone_wire":
		return "="
	case "minecraft:redstone_block":
		return "#"
	case "minecraft:repeater":
		return ">"
	case "minecraft:comparator":
		return "c"
	case "minecraft:redstone_torch", "minecraft:redstone_wall_torch":
		return "!"
	case "minecraft:air", "":
		return " "
	}
	name := strings.TrimPrefix(kind, "minecraft:")
	if name == "" {
		return "?"
	}
	return strings.ToUpper(name[:1])
}

// =============================================================================
// Synthesis progress bar (redhdl synthesize --interactive)
// =============================================================================

// ProgressModel renders a live simulated-annealing progress bar: current
// step, temperature, and best-seen energy.
type ProgressModel struct {
	Step, TotalSteps int
	Temperature      float64
	BestEnergy       float64
	Done             bool
	Err              error

	Updates <-chan ProgressUpdate
}

// ProgressUpdate is one tick of placement.Run's annealing loop. The CLI's
// --interactive path runs assembly.Synthesize in a goroutine with
// Config.Progress set to a closure that sends updates on this channel,
// and hands the channel to RunProgressView running on the main goroutine.
type ProgressUpdate struct {
	Step        int
	Temperature float64
	BestEnergy  float64
	Done        bool
	Err         error
}

type progressMsg ProgressUpdate

func (m ProgressModel) Init() tea.Cmd {
	return m.waitForUpdate
}

func (m ProgressModel) waitForUpdate() tea.Msg {
	update, ok := <-m.Updates
	if !ok {
		return progressMsg{Done: true}
	}
	return progressMsg(update)
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressMsg:
		m.Step = msg.Step
		m.Temperature = msg.Temperature
		m.BestEnergy = msg.BestEnergy
		m.Done = msg.Done
		m.Err = msg.Err
		if m.Done {
			return m, tea.Quit
		}
		return m, m.waitForUpdate
	}
	return m, nil
}

func (m ProgressModel) View() string {
	const width = 40
	frac := 0.0
	if m.TotalSteps > 0 {
		frac = float64(m.Step) / float64(m.TotalSteps)
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	bar := styleBar.Render(strings.Repeat("#", filled)) + styleDim.Render(strings.Repeat(".", width-filled))

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %d/%d\n", styleTitle.Render("synthesize"), bar, m.Step, m.TotalSteps)
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		styleDim.Render("temperature"), styleValue.Render(fmt.Sprintf("%.3f", m.Temperature)),
		styleDim.Render("best energy"), styleValue.Render(fmt.Sprintf("%.3f", m.BestEnergy)))
	if m.Err != nil {
		fmt.Fprintf(&b, "%s\n", styleDim.Render(m.Err.Error()))
	}
	return b.String()
}

// RunSliceViewer starts the interactive schematic slice viewer, blocking
// until the user quits. nl is optional context for the header summary.
func RunSliceViewer(schem voxel.Schematic, nl *netlist.Netlist) error {
	_, err := tea.NewProgram(NewSliceView(schem, nl)).Run()
	return err
}

// RunProgressView starts the interactive synthesize progress bar, blocking
// until updates closes or the user interrupts.
func RunProgressView(totalSteps int, updates <-chan ProgressUpdate) error {
	model := ProgressModel{TotalSteps: totalSteps, Updates: updates}
	_, err := tea.NewProgram(model).Run()
	return err
}
