package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/smearlab/pixelsort/pkg/pipeline"
	"github.com/smearlab/pixelsort/pkg/preset"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PresetListModel - Interactive preset selection
// =============================================================================

// PresetListModel is the bubbletea model for interactive preset selection.
type PresetListModel struct {
	Presets  []preset.Preset
	Cursor   int
	Selected *preset.Preset
	Height   int
	Offset   int
}

// NewPresetListModel creates a new preset list model.
func NewPresetListModel(presets []preset.Preset) PresetListModel {
	return PresetListModel{
		Presets: presets,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m PresetListModel) Init() tea.Cmd {
	return nil
}

func (m PresetListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Presets)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Presets) == 0 {
				return m, nil
			}
			p := m.Presets[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PresetListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Preset"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Presets) {
		end = len(m.Presets)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Presets[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, presetRow(cursor, p))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Band", "Channel", "Sort", "Dir", "Gamma", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			base := lipgloss.NewStyle()
			if col == 7 {
				base = base.Foreground(colorDim)
			}

			actualIdx := m.Offset + row
			if actualIdx == m.Cursor {
				if col == 7 {
					return base.Bold(true)
				}
				return base.Foreground(colorCyan).Bold(true)
			}
			if col == 7 {
				return base
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Presets))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// presetRow renders a preset as its effective pipeline settings, so unset
// fields show the default they resolve to rather than a blank.
func presetRow(cursor string, p preset.Preset) []string {
	opts := pipeline.NewOptions()
	p.Apply(&opts)

	sort := string(opts.Metric)
	if opts.Descending {
		sort += " ↓"
	}

	dir := "→"
	if opts.IsVertical() {
		dir = "↓"
	}

	band := fmt.Sprintf("%.2f..%.2f", opts.Low, opts.High)
	if opts.Invert {
		band = "!" + band
	}
	if opts.Jitter > 0 {
		band += fmt.Sprintf(" ±%.2f", opts.Jitter)
	}

	return []string{
		cursor,
		p.Name,
		band,
		string(opts.Channel),
		sort,
		dir,
		fmt.Sprintf("%.1f", opts.Gamma),
		p.Description,
	}
}

// runPresetPicker shows the interactive preset list and returns the chosen
// preset. The second return is false when the user quit without selecting.
func runPresetPicker(presets []preset.Preset) (preset.Preset, bool, error) {
	p := tea.NewProgram(NewPresetListModel(presets))
	finalModel, err := p.Run()
	if err != nil {
		return preset.Preset{}, false, err
	}

	fm, ok := finalModel.(PresetListModel)
	if !ok || fm.Selected == nil {
		return preset.Preset{}, false, nil
	}
	return *fm.Selected, true, nil
}
