package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lineofflight/changeos/internal/ingest"
	"github.com/lineofflight/changeos/internal/signals"
	"github.com/lineofflight/changeos/internal/tui"
)

// --- signals command ---

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Manage the signals fed into analysis",
}

var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List signals by week",
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
		fmt.Print(tui.RenderSignals(ws.SortedSignals()))
		return nil
	},
}

var (
	signalType    string
	signalWeek    int
	signalTitle   string
	signalContent string
	signalFile    string
	feedLimit     int

	importType string
	importWeek int
)

var signalsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a signal",
	Example: `  changeos signals add --type meeting_notes --week 3 --title "Steering committee" --content "..."
  changeos signals add --type survey --week 4 --title "Pulse survey" --file pulse.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := signals.ParseType(signalType)
		if err != nil {
			return err
		}
		content := signalContent
		if signalFile != "" {
			content, err = readContent(signalFile)
			if err != nil {
				return err
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
		sig, err := ws.AddSignal(signals.Draft{Type: typ, Week: signalWeek, Title: signalTitle, Content: content})
		if err != nil {
			return err
		}
		fmt.Printf("Added signal %s: %s (week %d, %s)\n", sig.ID, sig.Title, sig.Week, sig.Type.Label())
		return nil
	},
}

var signalsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a signal",
	Args:  cobra.ExactArgs(1),
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
		if !ws.DeleteSignal(args[0]) {
			return fmt.Errorf("signal %s not found", args[0])
		}
		fmt.Printf("Deleted signal %s\n", args[0])
		return nil
	},
}

var signalsImportFeedCmd = &cobra.Command{
	Use:   "import-feed [url]",
	Short: "Add one signal per item of an RSS or Atom feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := signals.ParseType(importType)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		drafts, err := ingest.NewImporter(0).FeedDrafts(ctx, args[0], typ, importWeek, feedLimit)
		if err != nil {
			return err
		}
		return addDrafts(drafts)
	},
}

var signalsImportURLCmd = &cobra.Command{
	Use:   "import-url [url]",
	Short: "Add a signal from the readable text of a web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := signals.ParseType(importType)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		draft, err := ingest.NewImporter(0).PageDraft(ctx, args[0], typ, importWeek)
		if err != nil {
			return err
		}
		return addDrafts([]signals.Draft{draft})
	},
}

func addDrafts(drafts []signals.Draft) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ws, err := newWorkspace(db)
	if err != nil {
		return err
	}

	added := 0
	for _, d := range drafts {
		sig, err := ws.AddSignal(d)
		if err != nil {
			fmt.Printf("  Skipped %q: %v\n", d.Title, err)
			continue
		}
		fmt.Printf("  Added %s: %s\n", sig.ID, sig.Title)
		added++
	}
	fmt.Printf("Imported %d of %d signals.\n", added, len(drafts))
	return nil
}

// readContent reads a signal body from a file, or stdin for "-".
func readContent(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("opening content file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return string(data), nil
}

func init() {
	signalsAddCmd.Flags().StringVarP(&signalType, "type", "t", string(signals.MeetingNotes), "Signal type (meeting_notes, survey, observation, risk_register, support, comms)")
	signalsAddCmd.Flags().IntVarP(&signalWeek, "week", "w", 1, "Week of the initiative the signal belongs to")
	signalsAddCmd.Flags().StringVar(&signalTitle, "title", "", "Signal title")
	signalsAddCmd.Flags().StringVar(&signalContent, "content", "", "Signal content")
	signalsAddCmd.Flags().StringVarP(&signalFile, "file", "f", "", "Read content from a file (- for stdin)")
	signalsAddCmd.MarkFlagRequired("title")

	for _, c := range []*cobra.Command{signalsImportFeedCmd, signalsImportURLCmd} {
		c.Flags().StringVarP(&importType, "type", "t", string(signals.Comms), "Signal type for imported items")
		c.Flags().IntVarP(&importWeek, "week", "w", 1, "Week to file imported items under")
	}
	signalsImportFeedCmd.Flags().IntVar(&feedLimit, "limit", 20, "Maximum feed items to import")

	signalsCmd.AddCommand(signalsListCmd)
	signalsCmd.AddCommand(signalsAddCmd)
	signalsCmd.AddCommand(signalsDeleteCmd)
	signalsCmd.AddCommand(signalsImportFeedCmd)
	signalsCmd.AddCommand(signalsImportURLCmd)
}

// --- initiative command ---

var initiativeCmd = &cobra.Command{
	Use:   "initiative",
	Short: "Show or update the initiative being tracked",
}

var initiativeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the initiative",
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
		i := ws.Initiative()
		fmt.Printf("Name:         %s\n", i.Name)
		fmt.Printf("Organisation: %s\n", i.Organisation)
		fmt.Printf("Timeline:     %d weeks\n", i.Timeline)
		return nil
	},
}

var (
	initiativeName     string
	initiativeOrg      string
	initiativeTimeline int
)

var initiativeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update initiative details; unset flags keep their value",
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
		i := ws.Initiative()
		if cmd.Flags().Changed("name") {
			i.Name = initiativeName
		}
		if cmd.Flags().Changed("org") {
			i.Organisation = initiativeOrg
		}
		if cmd.Flags().Changed("timeline") {
			i.Timeline = initiativeTimeline
		}
		i = ws.SetInitiative(i)
		fmt.Printf("Initiative: %s · %s · %d weeks\n", i.Name, i.Organisation, i.Timeline)
		return nil
	},
}

func init() {
	initiativeSetCmd.Flags().StringVar(&initiativeName, "name", "", "Initiative name")
	initiativeSetCmd.Flags().StringVar(&initiativeOrg, "org", "", "Organisation")
	initiativeSetCmd.Flags().IntVar(&initiativeTimeline, "timeline", signals.DefaultTimeline, "Timeline in weeks")

	initiativeCmd.AddCommand(initiativeShowCmd)
	initiativeCmd.AddCommand(initiativeSetCmd)
}

// --- key command ---

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the analysis provider API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Save an API key (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		} else {
			fmt.Print("API key: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("reading key: %w", err)
			}
			key = line
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("no key given")
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
		ws.SetAPIKey(key)
		fmt.Println("API key saved.")
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved API key",
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
		ws.SetAPIKey("")
		fmt.Println("API key removed.")
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
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
		switch {
		case ws.HasSavedKey():
			fmt.Println("Using saved API key.")
		case ws.APIKey() != "":
			fmt.Printf("Using API key from $%s.\n", cfg.Analysis.APIKeyEnv)
		default:
			fmt.Println("No API key. Save one with: changeos key set")
		}
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
}
