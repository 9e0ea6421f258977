package app

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/menta2k/poeticapic"
	"github.com/menta2k/poeticapic/pkg/pipeline"
)

func addSelectionFlags(cmd *cobra.Command, sel *poeticapic.Selection) {
	f := cmd.Flags()
	f.StringVarP(&sel.Filter, "filter", "f", "", "Filter name, see 'list filters'")
	f.StringVarP(&sel.Border, "border", "b", "", "Border name, see 'list borders'")

	f.IntVar(&sel.Width, "width", 0, "Resize width in pixels")
	f.IntVar(&sel.Height, "height", 0, "Resize height in pixels")
	f.StringVar(&sel.Kernel, "kernel", "", "Resampling kernel, see 'list kernels'")
	f.StringVar(&sel.Mode, "mode", "", "Resize mode: stretch|fit|fill")

	f.StringVarP(&sel.Text, "text", "t", "", "Text drawn on the image")
	f.BoolVarP(&sel.Generate, "generate", "g", false, "Generate the text from the image")
	f.StringVar(&sel.Kind, "kind", "", "Kind of generated text, see 'list kinds'")
	f.StringVarP(&sel.Position, "position", "p", "", "Text position, see 'list positions'")
	f.StringVar(&sel.FontPath, "font", "", "TrueType or OpenType font file")
	f.Float64Var(&sel.FontSize, "font-size", 0, "Font size in points")
	f.StringVar(&sel.Color, "color", "", "Text color as #RRGGBB")
	f.StringVar(&sel.Background, "background", "", "Text plate color as #RRGGBB")
}

// prepare builds the studio and a validated request.
func (g *globals) prepare(sel poeticapic.Selection) (*poeticapic.Studio, pipeline.Request, error) {
	studio, err := g.studio()
	if err != nil {
		return nil, pipeline.Request{}, err
	}
	req, err := studio.BuildRequest(sel)
	if err != nil {
		return nil, pipeline.Request{}, err
	}
	if err := pipeline.Validate(req); err != nil {
		return nil, pipeline.Request{}, err
	}
	if sel.Generate && sel.Text == "" && !studio.CaptionsEnabled() {
		log.Warn("no caption backend configured, text will be skipped (use --backend)")
	}
	log.WithField("request", req.String()).Debug("request ready")
	return studio, req, nil
}

func newApplyCommand(g *globals) *cobra.Command {
	var sel poeticapic.Selection

	cmd := &cobra.Command{
		Use:   "apply <image|url>",
		Short: "Decorate one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			studio, req, err := g.prepare(sel)
			if err != nil {
				return err
			}
			out, res, err := studio.ProcessFile(cmd.Context(), args[0], "", req)
			if err != nil {
				return err
			}
			report(cmd.OutOrStdout(), out, res)
			return nil
		},
	}
	addSelectionFlags(cmd, &sel)
	return cmd
}

func report(w io.Writer, out string, res *pipeline.Result) {
	fmt.Fprintf(w, "wrote %s\n", out)
	if res.Caption != nil {
		fmt.Fprintf(w, "  caption: %s\n", res.Caption.Text)
	}
	if res.FontFallback() {
		fmt.Fprintln(w, "  font: default bitmap font, size not adjustable")
	}
	for _, err := range res.Skipped {
		fmt.Fprintf(w, "  skipped %s\n", err)
	}
}
