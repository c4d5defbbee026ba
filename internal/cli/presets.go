package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/smearlab/pixelsort/pkg/preset"
)

// presetsCommand creates the presets command tree. Bare "presets" lists the
// built-in and user-defined presets; subcommands inspect one preset or copy
// it into the user preset file for editing.
func (c *CLI) presetsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List and manage the sorting presets",
		Long: fmt.Sprintf(`List and manage the sorting presets.

Built-in presets ship with the binary. Add your own, or shadow a built-in,
with a TOML file at %s:

  [dusk]
  description = "Dark streaks on the shadows"
  low = 0.0
  high = 0.35
  descending = true

"presets save <name>" copies an existing preset into that file as a starting
point.`, preset.DefaultPath()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsList(jsonOut)
		},
	}

	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print presets as JSON")

	cmd.AddCommand(c.presetsListCommand(&jsonOut))
	cmd.AddCommand(c.presetsShowCommand(&jsonOut))
	cmd.AddCommand(c.presetsSaveCommand())

	return cmd
}

// presetsListCommand creates the "presets list" subcommand, the explicit
// form of the bare presets command.
func (c *CLI) presetsListCommand(jsonOut *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsList(*jsonOut)
		},
	}
}

// presetsShowCommand creates the "presets show" subcommand.
func (c *CLI) presetsShowCommand(jsonOut *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the settings of one preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsShow(args[0], *jsonOut)
		},
	}
}

// presetsSaveCommand creates the "presets save" subcommand.
func (c *CLI) presetsSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Copy a preset into the user preset file for editing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetsSave(args[0])
		},
	}
}

// runPresetsList prints the merged preset list as a table or as JSON.
func runPresetsList(jsonOut bool) error {
	presets, err := preset.Load(preset.DefaultPath())
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(presets)
	}

	builtin := make(map[string]bool)
	for _, p := range preset.Builtins() {
		builtin[p.Name] = true
	}

	userDefined := false
	rows := [][]string{}
	for _, p := range presets {
		marker := "  "
		if !builtin[p.Name] {
			marker = "* "
			userDefined = true
		}
		rows = append(rows, presetRow(marker, p))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Preset", "Band", "Channel", "Sort", "Dir", "Gamma", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleSuccess
			case col == 7:
				return StyleDim
			default:
				return StyleValue
			}
		})

	fmt.Println(StyleTitle.Render("Sorting Presets"))
	fmt.Println(t.Render())
	if userDefined {
		fmt.Printf("  %s user-defined (%s)\n", StyleSuccess.Render("*"), preset.DefaultPath())
	}
	printNewline()
	printNextStep("Apply one", fmt.Sprintf("%s sort shot.jpg --preset %s", appName, presets[0].Name))
	return nil
}

// runPresetsShow prints one preset's settings, only the ones it actually
// sets, as key-value lines or as JSON.
func runPresetsShow(name string, jsonOut bool) error {
	presets, err := preset.Load(preset.DefaultPath())
	if err != nil {
		return err
	}
	p, err := preset.Find(presets, name)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	source := "built-in"
	builtin := make(map[string]bool)
	for _, b := range preset.Builtins() {
		builtin[b.Name] = true
	}
	if !builtin[p.Name] {
		source = preset.DefaultPath()
	}

	fmt.Println(StyleTitle.Render("Preset " + p.Name))
	printKeyValue("Description", p.Description)
	printKeyValue("Source", source)
	for _, f := range presetFieldLines(p) {
		printKeyValue(f[0], f[1])
	}
	printNewline()
	printNextStep("Apply it", fmt.Sprintf("%s sort shot.jpg --preset %s", appName, p.Name))
	return nil
}

// presetFieldLines renders the set fields of p as label/value pairs in
// flag order.
func presetFieldLines(p preset.Preset) [][2]string {
	var lines [][2]string
	add := func(label, value string) {
		lines = append(lines, [2]string{label, value})
	}
	if p.Low != nil {
		add("Low", fmt.Sprintf("%.2f", *p.Low))
	}
	if p.High != nil {
		add("High", fmt.Sprintf("%.2f", *p.High))
	}
	if p.Channel != nil {
		add("Channel", *p.Channel)
	}
	if p.Invert != nil {
		add("Invert", fmt.Sprintf("%t", *p.Invert))
	}
	if p.Jitter != nil {
		add("Jitter", fmt.Sprintf("%.2f", *p.Jitter))
	}
	if p.Seed != nil {
		add("Seed", fmt.Sprintf("%d", *p.Seed))
	}
	if p.Direction != nil {
		add("Direction", *p.Direction)
	}
	if p.Metric != nil {
		add("Metric", *p.Metric)
	}
	if p.Descending != nil {
		add("Descending", fmt.Sprintf("%t", *p.Descending))
	}
	if p.Gamma != nil {
		add("Gamma", fmt.Sprintf("%.1f", *p.Gamma))
	}
	return lines
}

// runPresetsSave copies the named preset into the user preset file.
func runPresetsSave(name string) error {
	path := preset.DefaultPath()
	presets, err := preset.Load(path)
	if err != nil {
		return err
	}
	p, err := preset.Find(presets, name)
	if err != nil {
		return err
	}

	if err := preset.Save(path, p); err != nil {
		return err
	}
	printSuccess("Saved preset %s", StyleHighlight.Render(p.Name))
	printFile(path)
	printNewline()
	printNextStep("Edit it", fmt.Sprintf("%s %s", editorCommand(), path))
	return nil
}

// editorCommand returns the user's editor for next-step hints.
func editorCommand() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}
