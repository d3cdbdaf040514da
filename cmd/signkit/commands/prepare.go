package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/signkit/internal/service"
)

// prepare <file.svg>: convert vector art into a bundle.
func (c *cli) prepareCmd() *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "prepare <file.svg|->",
		Short: "Convert an SVG file into a manufacturing bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open art: %w", err)
				}
				defer file.Close()
				r = file
			}

			svc, release, err := c.newService(cmd.Context(), f.preset)
			if err != nil {
				return err
			}
			defer release()

			b, err := svc.PrepareSVG(cmd.Context(), r, f.req, f.preset)
			if err != nil {
				return err
			}
			return c.writeJSON(cmd, b)
		},
	}
	f.bind(cmd)
	return cmd
}

// text <TEXT>: lay out text and convert the glyphs.
func (c *cli) textCmd() *cobra.Command {
	var (
		f  requestFlags
		in service.TextInput
	)
	cmd := &cobra.Command{
		Use:   "text <TEXT>",
		Short: "Lay out text with a font and convert the glyphs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Text = args[0]
			svc, release, err := c.newService(cmd.Context(), f.preset)
			if err != nil {
				return err
			}
			defer release()

			b, err := svc.PrepareText(cmd.Context(), in, f.req, f.preset)
			if err != nil {
				return err
			}
			return c.writeJSON(cmd, b)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&in.Font, "font", "", "font file path or URL (default: built-in Go Regular)")
	cmd.Flags().Float64Var(&in.Spacing, "spacing", 0, "extra space between letters in mm")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}
