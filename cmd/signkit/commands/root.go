package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/internal/config"
	"github.com/gogpu/signkit/internal/service"
	"github.com/gogpu/signkit/preset"
	"github.com/gogpu/signkit/text"
)

// cli is the state shared by subcommands, filled in before any of them
// runs.
type cli struct {
	cfg *config.Config

	presetDB string
	logLevel string
	output   string
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "signkit",
		Short:         "Prepare vector art and text for 3D-printed signage",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.Load()
			if c.presetDB != "" {
				c.cfg.PresetDB = c.presetDB
			}
			if c.logLevel != "" {
				c.cfg.LogLevel = c.logLevel
			}
			signkit.SetLogger(c.cfg.NewLogger(cmd.ErrOrStderr()))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.presetDB, "preset-db", "", "preset database path (default $SIGNKIT_PRESET_DB)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (default $SIGNKIT_LOG_LEVEL)")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", "", "write JSON to a file instead of stdout")

	root.AddCommand(
		c.prepareCmd(),
		c.textCmd(),
		c.validateCmd(),
		c.segmentCmd(),
		c.rulesCmd(),
		c.presetCmd(),
		c.serveCmd(),
	)
	return root
}

// openStore opens the configured preset database.
func (c *cli) openStore(ctx context.Context) (*preset.Store, error) {
	if c.cfg.PresetDB == "" {
		return nil, service.ErrPresetsDisabled
	}
	return preset.Open(ctx, c.cfg.PresetDB)
}

// newService builds a service; the preset store is opened only when a
// preset is named. The returned func releases both.
func (c *cli) newService(ctx context.Context, presetName string) (*service.Service, func(), error) {
	// Fonts named on the command line are trusted.
	fonts := service.WithFontLoader(text.DefaultLoader(http.DefaultClient))
	if presetName == "" {
		svc := service.New(fonts)
		return svc, svc.Close, nil
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc := service.New(fonts, service.WithPresets(store))
	return svc, func() {
		svc.Close()
		_ = store.Close()
	}, nil
}

// writeJSON prints v as indented JSON to --output or the command's
// stdout.
func (c *cli) writeJSON(cmd *cobra.Command, v any) error {
	var w io.Writer = cmd.OutOrStdout()
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// requestFlags are the conversion parameters shared by prepare and text.
type requestFlags struct {
	req    signkit.Request
	preset string
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.req.Height, "height", 0, "target letter height in mm")
	fs.Float64Var(&f.req.Depth, "depth", 50, "letter depth in mm")
	fs.StringVar((*string)(&f.req.Profile), "profile", string(signkit.ProfileFlat), "edge profile: flat, rounded or chamfer")
	fs.StringVar((*string)(&f.req.Lighting), "lighting", string(signkit.LightingNone), "lighting type")
	fs.BoolVar(&f.req.Exterior, "exterior", false, "sign is mounted outdoors")
	fs.StringVar(&f.req.Material, "material", "", "filament key (asa, abs, petg, pla)")
	fs.StringVar(&f.preset, "preset", "", "named preset overriding the limits and rule")
}
