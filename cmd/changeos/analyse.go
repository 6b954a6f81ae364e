package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lineofflight/changeos/internal/backup"
	"github.com/lineofflight/changeos/internal/brief"
	"github.com/lineofflight/changeos/internal/tools"
	"github.com/lineofflight/changeos/internal/tui"
	"github.com/lineofflight/changeos/internal/workspace"
)

// --- analyse command ---

var analyseCmd = &cobra.Command{
	Use:     "analyse",
	Aliases: []string{"analyze"},
	Short:   "Run the analysis engine over the stored signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, cfg.Analysis.Timeout())
		defer cancel()

		n := len(ws.Signals())
		fmt.Printf("Analysing %d signal(s) with %s...\n", n, cfg.Analysis.Provider)
		start := time.Now()
		if _, err := ws.RunAnalysis(ctx); err != nil {
			return errors.New(workspace.UserMessage(err))
		}
		fmt.Printf("Analysis complete in %s.\n\n", time.Since(start).Round(time.Second))
		fmt.Print(tui.RenderDashboard(ws.View(), terminalWidth))
		return nil
	},
}

// --- brief command ---

var (
	briefOut    string
	briefSave   bool
	briefRender bool
)

var briefCmd = &cobra.Command{
	Use:   "brief",
	Short: "Generate the weekly change brief from the last analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}
		a := ws.Analysis()
		if a == nil {
			return fmt.Errorf("run analysis first to generate a brief")
		}

		now := time.Now()
		md := brief.Render(a, ws.Initiative(), ws.Signals(), now)

		out := briefOut
		if briefSave && out == "" {
			out = brief.Filename(ws.Initiative(), now)
		}
		if out != "" {
			if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
				return fmt.Errorf("writing brief: %w", err)
			}
			fmt.Printf("Brief written to %s\n", out)
			return nil
		}

		if briefRender {
			rendered, err := tui.RenderMarkdown(md, terminalWidth)
			if err != nil {
				return err
			}
			fmt.Print(rendered)
			return nil
		}
		fmt.Print(md)
		return nil
	},
}

func init() {
	briefCmd.Flags().StringVarP(&briefOut, "out", "o", "", "Write the brief to this file")
	briefCmd.Flags().BoolVar(&briefSave, "save", false, "Write the brief to change-brief-<initiative>-<date>.md")
	briefCmd.Flags().BoolVar(&briefRender, "render", false, "Format the brief for the terminal")
}

// --- dashboard command ---

var (
	dashboardDemo bool
	terminalWidth = 100
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the risk dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}
		if dashboardDemo {
			ws.SetMode(workspace.ModeDemo)
		}
		fmt.Print(tui.RenderDashboard(ws.View(), terminalWidth))
		return nil
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardDemo, "demo", false, "Show the bundled demo initiative")
	rootCmd.PersistentFlags().IntVar(&terminalWidth, "width", 100, "Output width for rendered views")
}

// --- export / import / clear ---

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write signals, initiative and analysis to a JSON backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}
		data, err := backup.Export(backup.Bundle{
			Signals:    ws.Signals(),
			Initiative: ws.Initiative(),
			Analysis:   ws.Analysis(),
		})
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = backup.Filename(time.Now())
		}
		if out == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing backup: %w", err)
		}
		fmt.Printf("Backup written to %s\n", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace stored data with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}
		b, err := backup.Import(raw)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}
		ws.Restore(b.Signals, b.Initiative, b.Analysis)
		fmt.Printf("Imported %d signals for %s.\n", len(b.Signals), b.Initiative.Name)
		return nil
	},
}

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all signals, the initiative and the analysis (the API key is kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			fmt.Print("Delete all signals and analysis? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.TrimSpace(strings.ToLower(answer))
			if answer != "y" && answer != "yes" {
				return fmt.Errorf("aborted")
			}
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ws, err := newWorkspace(db)
		if err != nil {
			return err
		}
		ws.ClearData()
		fmt.Println("All data cleared. Your API key was kept.")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (- for stdout)")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip confirmation")
}

// --- tools command ---

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Change-management calculators",
}

var readinessScores map[string]int

var toolsReadinessCmd = &cobra.Command{
	Use:     "readiness",
	Short:   "Score organisational readiness across 8 dimensions",
	Example: "  changeos tools readiness --score leadership=4,capacity=2,culture=3",
	RunE: func(cmd *cobra.Command, args []string) error {
		scores := tools.DefaultReadinessScores()
		for k, v := range readinessScores {
			if _, ok := scores[k]; !ok {
				return fmt.Errorf("unknown dimension %q", k)
			}
			scores[k] = v
		}
		fmt.Print(tui.RenderReadiness(tools.ScoreReadiness(scores)))
		return nil
	},
}

var stakeholderSpecs []string

var toolsStakeholderCmd = &cobra.Command{
	Use:     "stakeholder",
	Short:   "Place stakeholders on the influence/support map",
	Example: `  changeos tools stakeholder --add "CFO:5:4" --add "Payroll team:2:2"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		list := tools.DefaultStakeholders()
		if len(stakeholderSpecs) > 0 {
			list = list[:0]
			for _, s := range stakeholderSpecs {
				parts, err := splitSpec(s, 3)
				if err != nil {
					return err
				}
				list = append(list, tools.Stakeholder{Name: parts.name, Influence: parts.nums[0], Support: parts.nums[1]})
			}
		}
		fmt.Print(tui.RenderStakeholders(tools.Plot(list)))
		return nil
	},
}

var impactSpecs []string

var toolsImpactCmd = &cobra.Command{
	Use:     "impact",
	Short:   "Assess the impact on each affected group",
	Example: `  changeos tools impact --group "Finance Team:35:4:5:3"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups := tools.DefaultGroups()
		if len(impactSpecs) > 0 {
			groups = groups[:0]
			for _, s := range impactSpecs {
				parts, err := splitSpec(s, 5)
				if err != nil {
					return err
				}
				groups = append(groups, tools.Group{
					Name:          parts.name,
					Size:          parts.nums[0],
					ProcessChange: parts.nums[1],
					SystemChange:  parts.nums[2],
					RoleChange:    parts.nums[3],
				})
			}
		}
		fmt.Print(tui.RenderImpact(tools.AssessImpact(groups)))
		return nil
	},
}

var listBehaviours bool

var toolsResistanceCmd = &cobra.Command{
	Use:   "resistance [behaviour...]",
	Short: "Decode what is driving observed resistance",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listBehaviours || len(args) == 0 {
			for _, b := range tools.Behaviours {
				fmt.Printf("  %-13s %s\n", b.ID, b.Label)
			}
			if len(args) == 0 {
				return nil
			}
			fmt.Println()
		}
		fmt.Print(tui.RenderResistance(tools.DecodeResistance(args)))
		return nil
	},
}

var toolsMythCmd = &cobra.Command{
	Use:   "myth",
	Short: "Step through the story behind the 70% failure statistic",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := tea.NewProgram(tui.NewMythModel()).Run()
		return err
	},
}

func init() {
	toolsReadinessCmd.Flags().StringToIntVar(&readinessScores, "score", nil, "Dimension ratings 1-5, e.g. leadership=4")
	toolsStakeholderCmd.Flags().StringArrayVar(&stakeholderSpecs, "add", nil, "Stakeholder as name:influence:support")
	toolsImpactCmd.Flags().StringArrayVar(&impactSpecs, "group", nil, "Group as name:size:process:system:role")
	toolsResistanceCmd.Flags().BoolVar(&listBehaviours, "list", false, "List behaviour ids")

	toolsCmd.AddCommand(toolsReadinessCmd)
	toolsCmd.AddCommand(toolsStakeholderCmd)
	toolsCmd.AddCommand(toolsImpactCmd)
	toolsCmd.AddCommand(toolsResistanceCmd)
	toolsCmd.AddCommand(toolsMythCmd)
}

type fieldSpec struct {
	name string
	nums []int
}

// splitSpec parses "name:n1:n2..." with exactly fields parts. The name may
// itself contain colons; numbers are taken from the right.
func splitSpec(s string, fields int) (fieldSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) < fields {
		return fieldSpec{}, fmt.Errorf("%q: expected %d colon-separated fields", s, fields)
	}
	cut := len(parts) - (fields - 1)
	out := fieldSpec{name: strings.Join(parts[:cut], ":")}
	for _, p := range parts[cut:] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fieldSpec{}, fmt.Errorf("%q: %q is not a number", s, p)
		}
		out.nums = append(out.nums, n)
	}
	return out, nil
}
