package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/internal/service"
)

var errInvalidSign = errors.New("sign failed validation")

func (c *cli) validateCmd() *cobra.Command {
	var (
		req        signkit.ValidationRequest
		presetName string
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check sign dimensions against the manufacturing limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.TotalWidth == 0 {
				req.TotalWidth = req.Width
			}
			svc, release, err := c.newService(cmd.Context(), presetName)
			if err != nil {
				return err
			}
			defer release()

			report, err := svc.Validate(cmd.Context(), req, presetName)
			if err != nil {
				return err
			}
			out := struct {
				Report signkit.ValidationReport  `json:"report"`
				Fixed  signkit.ValidationRequest `json:"fixed"`
			}{report, report.ApplyFixes(req)}
			if err := c.writeJSON(cmd, out); err != nil {
				return err
			}
			if strict && !report.IsValid {
				return errInvalidSign
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&req.Height, "height", 0, "letter height in mm")
	fs.Float64Var(&req.Width, "width", 0, "widest letter in mm")
	fs.Float64Var(&req.TotalWidth, "total-width", 0, "composition width in mm (default --width)")
	fs.Float64Var(&req.Depth, "depth", 50, "letter depth in mm")
	fs.Float64Var(&req.StrokeWidth, "stroke-width", 0, "average stroke width in mm")
	fs.StringVar((*string)(&req.Profile), "profile", string(signkit.ProfileFlat), "edge profile")
	fs.StringVar((*string)(&req.Lighting), "lighting", string(signkit.LightingNone), "lighting type")
	fs.IntVar(&req.LetterCount, "letters", 1, "number of letters")
	fs.BoolVar(&req.Exterior, "exterior", false, "sign is mounted outdoors")
	fs.StringVar(&req.Material, "material", "", "filament key")
	fs.StringVar(&presetName, "preset", "", "named preset")
	fs.BoolVar(&strict, "strict", false, "exit with an error when the report has errors")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func (c *cli) segmentCmd() *cobra.Command {
	var (
		in         service.SegmentInput
		overlap    float64
		presetName string
	)
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Plan the tiling of an oversized piece",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Overlap = &overlap
			svc, release, err := c.newService(cmd.Context(), presetName)
			if err != nil {
				return err
			}
			defer release()

			plan, err := svc.Segment(cmd.Context(), in, presetName)
			if err != nil {
				return err
			}
			return c.writeJSON(cmd, plan)
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&in.Width, "width", 0, "piece width in mm")
	fs.Float64Var(&in.Height, "height", 0, "piece height in mm")
	fs.StringVar((*string)(&in.Lighting), "lighting", string(signkit.LightingNone), "lighting type")
	fs.Float64Var(&overlap, "overlap", signkit.DefaultOverlap, "overlap between segments in mm")
	fs.StringVar(&presetName, "preset", "", "named preset")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

// rules [lighting]: print one rule, or every rule.
func (c *cli) rulesCmd() *cobra.Command {
	var presetName string
	cmd := &cobra.Command{
		Use:   "rules [lighting]",
		Short: "Print the construction rules of a lighting type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.newService(cmd.Context(), presetName)
			if err != nil {
				return err
			}
			defer release()

			if len(args) == 1 {
				r, err := svc.Rule(cmd.Context(), args[0], presetName)
				if err != nil {
					return err
				}
				return c.writeJSON(cmd, r)
			}
			all := make([]signkit.LightingRule, 0, len(signkit.LightingTypes))
			for _, lt := range signkit.LightingTypes {
				r, err := svc.Rule(cmd.Context(), string(lt), presetName)
				if err != nil {
					return err
				}
				all = append(all, r)
			}
			return c.writeJSON(cmd, all)
		},
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "named preset")
	return cmd
}
