package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/preset"
)

func (c *cli) presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Save, show, list and delete named presets",
	}
	cmd.AddCommand(c.presetSaveCmd(), c.presetGetCmd(), c.presetListCmd(), c.presetDeleteCmd())
	return cmd
}

// preset save <name>: store a preset seeded from the defaults of its
// lighting type, overlaid with an optional JSON file.
func (c *cli) presetSaveCmd() *cobra.Command {
	var (
		lighting string
		from     string
	)
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create or replace a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lt, err := signkit.ParseLightingType(lighting)
			if err != nil {
				return err
			}
			p := preset.FromDefaults(args[0], lt)
			if from != "" {
				data, err := os.ReadFile(from)
				if err != nil {
					return fmt.Errorf("read preset file: %w", err)
				}
				if err := json.Unmarshal(data, &p); err != nil {
					return fmt.Errorf("decode preset file: %w", err)
				}
				p.Name = args[0]
			}

			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			saved, err := store.Save(cmd.Context(), p)
			if err != nil {
				return err
			}
			return c.writeJSON(cmd, saved)
		},
	}
	cmd.Flags().StringVar(&lighting, "lighting", string(signkit.LightingNone), "lighting type the preset overrides")
	cmd.Flags().StringVar(&from, "from", "", "JSON file with rule and limits fields to override")
	return cmd
}

func (c *cli) presetGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.writeJSON(cmd, p)
		},
	}
}

func (c *cli) presetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return c.writeJSON(cmd, list)
		},
	}
}

func (c *cli) presetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
