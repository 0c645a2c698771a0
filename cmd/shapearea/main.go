package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/shapearea/internal/config"
	"github.com/jask/shapearea/internal/form"
	"github.com/jask/shapearea/internal/keys"
	"github.com/jask/shapearea/internal/logging"
	"github.com/jask/shapearea/internal/session"
	"github.com/jask/shapearea/internal/shape"
	"github.com/jask/shapearea/internal/tui"
	"github.com/jask/shapearea/internal/unit"
)

type cli struct {
	// Global flags
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "shapearea",
		Short: "Compute the area of simple 2D shapes",
		Long: `shapearea computes the area of a square, rectangle, circle, triangle,
trapezoid or ellipse.

Run without arguments to start the interactive calculator.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg

			// The interactive calculator owns the terminal, so it only logs
			// to the configured file.
			if cmd == cmd.Root() {
				level := cfg.Log.Level
				if c.verbose {
					level = "debug"
				}
				c.logger, err = logging.New(level, cfg.Log.File)
			} else {
				c.logger, err = logging.Console(c.verbose)
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/shapearea/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(c.computeCmd(), c.shapesCmd(), c.unitsCmd())
	return root
}

func (c *cli) computeCmd() *cobra.Command {
	var (
		dims     []string
		unitFlag string
	)
	cmd := &cobra.Command{
		Use:   "compute <shape>",
		Short: "Compute an area without the interactive UI",
		Example: `  shapearea compute circle --dim radius=2
  shapearea compute rectangle --dim length=3 --dim width=4.5 --unit m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unitFlag == "" {
				unitFlag = c.defaultUnit()
			}
			res, err := c.compute(args[0], unitFlag, dims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&dims, "dim", "d", nil, "Dimension as field=value (repeatable)")
	cmd.Flags().StringVarP(&unitFlag, "unit", "u", "", "Display unit (default from config)")
	return cmd
}

// defaultUnit returns the configured unit, or unit.Default with a warning
// when the config names an unknown one.
func (c *cli) defaultUnit() string {
	want := c.cfg.UI.DefaultUnit
	if u, err := unit.Units().Parse(want); err == nil {
		return u.Symbol
	}
	if want != "" {
		c.logger.Warn("default unit ignored", zap.String("unit", want))
	}
	return unit.Default
}

// compute drives a session the same way the interactive form does.
func (c *cli) compute(shapeName, unitName string, dims []string) (session.Result, error) {
	shapes := shape.Default()
	units := unit.Units()

	id, err := shapes.Parse(shapeName)
	if err != nil {
		return session.Result{}, err
	}
	u, err := units.Parse(unitName)
	if err != nil {
		return session.Result{}, err
	}

	sess, err := session.New(session.Options{
		Shapes:      shapes,
		Units:       units,
		DefaultUnit: u.Symbol,
		Logger:      c.logger,
	})
	if err != nil {
		return session.Result{}, err
	}
	if err := sess.SelectShape(id); err != nil {
		return session.Result{}, err
	}

	for _, d := range dims {
		field, value, ok := strings.Cut(d, "=")
		field, value = strings.ToLower(strings.TrimSpace(field)), strings.TrimSpace(value)
		if !ok || field == "" {
			return session.Result{}, fmt.Errorf("dimension %q: want field=value", d)
		}
		if !containsField(sess.Fields(), field) {
			return session.Result{}, fmt.Errorf("dimension %q: %s has fields %s", d, id, strings.Join(sess.Fields(), ", "))
		}
		if !sess.ChangeField(field, value) {
			return session.Result{}, fmt.Errorf("dimension %q: %q is not a non-negative decimal", d, value)
		}
	}

	res, err := sess.Compute()
	if errors.Is(err, form.ErrIncompleteInput) {
		return session.Result{}, fmt.Errorf("%w: %s needs positive values for %s", form.ErrIncompleteInput, id, strings.Join(sess.Fields(), ", "))
	}
	return res, err
}

func containsField(fields []string, f string) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}

func (c *cli) shapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List supported shapes and their dimensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, d := range shape.Default().Definitions() {
				rows = append(rows, []string{string(d.ID), d.Label, strings.Join(d.Fields, ", ")})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "SHAPE", "DIMENSIONS"}, rows)
		},
	}
}

func (c *cli) unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List display units",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, u := range unit.Units().All() {
				mark := ""
				if u.Symbol == c.cfg.UI.DefaultUnit {
					mark = "default"
				}
				rows = append(rows, []string{u.Symbol, u.Label, mark})
			}
			return printTable(cmd.OutOrStdout(), []string{"SYMBOL", "UNIT", ""}, rows)
		},
	}
}

func printTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func (c *cli) runInteractive() error {
	cfg := c.cfg
	log := c.logger

	reg, err := keys.LoadFile(cfg.Keys.File)
	if err != nil {
		log.Warn("keybindings ignored", zap.Error(err))
		reg = keys.NewRegistry()
	}

	sess, err := session.New(session.Options{DefaultUnit: cfg.UI.DefaultUnit, Logger: log})
	if errors.Is(err, unit.ErrUnknownUnit) {
		log.Warn("default unit ignored", zap.String("unit", cfg.UI.DefaultUnit))
		sess, err = session.New(session.Options{Logger: log})
	}
	if err != nil {
		return err
	}
	if cfg.UI.DefaultShape != "" {
		if id, err := sess.Shapes().Parse(cfg.UI.DefaultShape); err != nil {
			log.Warn("default shape ignored", zap.Error(err))
		} else if err := sess.SelectShape(id); err != nil {
			return err
		}
	}

	cfgPath := c.configPath
	if cfgPath == "" {
		cfgPath = config.Path()
	}
	app, err := tui.New(tui.Options{
		Session:    sess,
		Keys:       reg,
		Logger:     log,
		Config:     cfg,
		ConfigPath: cfgPath,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(app, opts...)

	if w, err := keys.Watch(cfg.Keys.File, log, func(r *keys.Registry) {
		p.Send(tui.KeysReloadedMsg{Registry: r})
	}); err != nil {
		log.Debug("keybindings watcher disabled", zap.Error(err))
	} else {
		defer w.Close()
	}

	log.Info("session started", zap.String("session", sess.ID()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
