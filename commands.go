package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"linkdeck/internal/browser"
	"linkdeck/internal/config"
	"linkdeck/internal/links"
	"linkdeck/internal/log"
	"linkdeck/internal/models"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configPath   string
	debugMode    bool
	noReimport   bool
	exportFormat string
)

var rootCmd = &cobra.Command{
	Use:   "linkdeck",
	Short: "Two searchable link lists built from folders of .url shortcuts (TUI)",
	Long: "linkdeck imports Internet Shortcut (.url) files from a folder into one of two lists, " +
		"dedupes and sorts them, and opens them in your browser. Both lists are saved on exit " +
		"and each folder is imported again on the next start.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runTUI,
}

var importCmd = &cobra.Command{
	Use:   "import <slot> <folder>",
	Short: "Replace a list with the links found in a folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := models.ParseSlot(args[0])
		if err != nil {
			return err
		}
		a, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		res, err := a.manager.Import(slot, args[1])
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No folder given, nothing imported")
			return nil
		}
		for _, readErr := range res.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), readErr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d links from %s into %s (+%d/-%d)\n",
			len(res.Links), res.Folder, slot.Title(), len(res.Added), len(res.Removed))

		return a.manager.SaveConfig()
	},
}

var listCmd = &cobra.Command{
	Use:   "list <slot> [search]",
	Short: "Print a list's links, optionally filtered",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, query, err := slotAndQuery(args)
		if err != nil {
			return err
		}
		a, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		for _, link := range a.manager.Filter(slot, query) {
			fmt.Fprintln(cmd.OutOrStdout(), link)
		}
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open <slot> [search]",
	Short: "Open a list's links in the browser, optionally filtered",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, query, err := slotAndQuery(args)
		if err != nil {
			return err
		}
		a, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		if a.launchErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", a.launchErr)
		}
		n := a.manager.OpenMatching(slot, query)
		fmt.Fprintf(cmd.OutOrStdout(), "Opened %d links\n", n)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <slot>",
	Short: "Print a list with its folder as text, JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slot, err := models.ParseSlot(args[0])
		if err != nil {
			return err
		}
		a, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		doc := exportDoc{
			Slot:   slot.String(),
			Folder: a.manager.Folder(slot),
			Links:  a.manager.Links(slot),
		}
		return writeExport(cmd.OutOrStdout(), doc, exportFormat)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "linkdeck %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "state file (default $LINKDECK_CONFIG or ./config.json)")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "write debug logs to $LINKDECK_LOG_FILE (default linkdeck.log)")
	rootCmd.Flags().BoolVar(&noReimport, "no-reimport", false, "do not import the saved folders again on start")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(importCmd, listCmd, openCmd, exportCmd, versionCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every command needs: a loaded manager and its logger
type app struct {
	manager   *links.Manager
	logger    *zap.Logger
	launchErr error // Set when no browser could be found
}

func setup() (*app, error) {
	env := config.LoadEnv()

	path := env.ConfigPath
	if configPath != "" {
		path = configPath
	}

	level := env.LogLevel
	if debugMode {
		level = "debug"
	}
	if level != "" {
		if err := log.Initialize(level, env.LogFile); err != nil {
			return nil, err
		}
	}
	logger := log.Logger

	a := &app{logger: logger}
	launcher, err := browser.Detect(&browser.Config{Command: env.Browser})
	if err != nil {
		logger.Warn("browser launcher unavailable", zap.Error(err))
		a.launchErr = err
		launcher = browser.Nop{}
	} else {
		logger.Debug("browser launcher", zap.String("name", launcher.Name()))
	}

	a.manager = links.New(launcher, links.WithLogger(logger), links.WithConfigPath(path))
	if err := a.manager.LoadConfig(); err != nil {
		return nil, err
	}
	return a, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	model := New(a.manager, a.logger)
	if !noReimport {
		model.ReportImports(a.manager.ReimportAll())
	}
	if a.launchErr != nil {
		model.messages.Push("No browser", fmt.Sprintf("Links cannot be opened:\n%v\n\nSet %s to a browser command.", a.launchErr, config.EnvBrowser))
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		// The session did not end normally; keep the file as it was
		return errors.Wrap(err, "linkdeck exited abnormally, state not saved")
	}

	if err := a.manager.SaveConfig(); err != nil {
		a.logger.Error("saving config", zap.Error(err))
		return err
	}
	return nil
}

func slotAndQuery(args []string) (models.Slot, string, error) {
	slot, err := models.ParseSlot(args[0])
	if err != nil {
		return slot, "", err
	}
	query := ""
	if len(args) > 1 {
		query = args[1]
	}
	return slot, query, nil
}

type exportDoc struct {
	Slot   string   `json:"slot" yaml:"slot"`
	Folder string   `json:"folder" yaml:"folder"`
	Links  []string `json:"links" yaml:"links"`
}

func writeExport(w io.Writer, doc exportDoc, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "    ")
		if err != nil {
			return errors.Wrap(err, "encode json")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml", "yml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		_, err = w.Write(data)
		return err

	case "text", "":
		fmt.Fprintf(w, "# Linklist %s\n", doc.Slot)
		fmt.Fprintf(w, "# Folder: %s\n", doc.Folder)
		for _, link := range doc.Links {
			fmt.Fprintln(w, link)
		}
		return nil
	}
	return errors.Errorf("unknown export format %q", format)
}
