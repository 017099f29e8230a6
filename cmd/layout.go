package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/elvannunal/portfolio/internal/content"
	"github.com/elvannunal/portfolio/internal/skills"
	"github.com/elvannunal/portfolio/internal/viewport"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the skills layout for a viewport width",
	RunE:  runLayout,
}

var classifyCmd = &cobra.Command{
	Use:   "classify WIDTH",
	Short: "Print the layout mode for a viewport width",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassify,
}

func init() {
	layoutCmd.Flags().Int("width", viewport.DesktopMin, "viewport width in pixels")
	layoutCmd.Flags().String("mode", "", "layout mode (mobile, tablet, desktop); overrides --width")
	layoutCmd.Flags().Bool("json", false, "print the layout as JSON")
	layoutCmd.Flags().String("lang", "en", "category label language (tr or en)")
	rootCmd.AddCommand(layoutCmd, classifyCmd)
}

func runLayout(cmd *cobra.Command, _ []string) error {
	width, _ := cmd.Flags().GetInt("width")
	asJSON, _ := cmd.Flags().GetBool("json")
	lang, _ := cmd.Flags().GetString("lang")
	if width < 0 {
		return errors.Errorf("width must not be negative, got %d", width)
	}

	mode := viewport.Classify(width)
	if raw, _ := cmd.Flags().GetString("mode"); raw != "" {
		m, err := viewport.ParseMode(raw)
		if err != nil {
			return err
		}
		mode = m
	}

	site, err := content.Load()
	if err != nil {
		return err
	}
	res := skills.Layout(site.Categories, site.Skills, mode)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printLayout(out, res, lang)
	return nil
}

func printLayout(w io.Writer, res skills.Result, lang string) {
	fmt.Fprintf(w, "mode: %s (%d skills)\n", res.Mode, res.Total)
	if len(res.Rings) > 0 {
		fmt.Fprintf(w, "size: %.0fpx\n", res.Size)
		for _, r := range res.Rings {
			fmt.Fprintf(w, "ring %d  %-22s radius %.0f\n", r.Index, r.Category.Title(lang), r.Radius)
			for _, p := range r.Placements {
				fmt.Fprintf(w, "  %-20s (%8.2f, %8.2f)\n", p.Item.Name, p.Position.X, p.Position.Y)
			}
		}
		return
	}
	fmt.Fprintf(w, "flow: %s\n", res.Flow)
	for _, g := range res.Groups {
		names := make([]string, len(g.Items))
		for i, it := range g.Items {
			names[i] = it.Name
		}
		fmt.Fprintf(w, "%s: %s\n", g.Category.Title(lang), strings.Join(names, ", "))
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	width, err := strconv.Atoi(args[0])
	if err != nil || width < 0 {
		return errors.Errorf("invalid width %q", args[0])
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), viewport.Classify(width))
	return err
}
