// The guide commands export Plonkit guide pages as Markdown, PDF, or
// structured JSON. Pages
// render server-side, so the default path is a plain fetch; --render
// switches to a headless browser for content that needs scripting.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/atollk/geoguessr-scripts/browser"
	"github.com/atollk/geoguessr-scripts/core"
	"github.com/atollk/geoguessr-scripts/core/fetch"
	"github.com/atollk/geoguessr-scripts/core/output"
	"github.com/atollk/geoguessr-scripts/core/parse"
	"github.com/atollk/geoguessr-scripts/core/render"
	"github.com/atollk/geoguessr-scripts/crawl"
)

// Guide export flags.
var (
	flagGuideAll      bool
	flagGuideMarkdown bool
	flagGuidePDF      bool
	flagGuideJSON     bool
	flagGuideRender   bool
	flagGuideOutDir   string
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Work with the Plonkit guide",
}

var guideExportCmd = &cobra.Command{
	Use:   "export [page]",
	Short: "Export guide pages to the chosen format",
	Long: `Export fetches one guide page (by its path segment, e.g. "sweden") or all
pages discovered from the guide index, parses the step structure, and
writes one file per page.

Examples:
  geoguessr-scripts guide export sweden --markdown
  geoguessr-scripts guide export --all --pdf --output_dir ./guides
  geoguessr-scripts guide export san-marino --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGuideExport,
}

func init() {
	rootCmd.AddCommand(guideCmd)
	guideCmd.AddCommand(guideExportCmd)

	guideExportCmd.Flags().BoolVar(&flagGuideAll, "all", false, "Export every page linked from the guide index")

	// Output format flags (mutually exclusive).
	guideExportCmd.Flags().BoolVar(&flagGuideMarkdown, "markdown", false, "Output Markdown")
	guideExportCmd.Flags().BoolVar(&flagGuidePDF, "pdf", false, "Output PDF")
	guideExportCmd.Flags().BoolVar(&flagGuideJSON, "json", false, "Output structured JSON")

	guideExportCmd.Flags().BoolVar(&flagGuideRender, "render", false, "Fetch pages with a headless browser")
	guideExportCmd.Flags().StringVar(&flagGuideOutDir, "output_dir", "", "Output directory (default from config)")
}

func runGuideExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if flagGuideAll == (len(args) == 1) {
		return fmt.Errorf("pass exactly one of a page argument or --all")
	}
	renderer, err := selectGuideRenderer()
	if err != nil {
		return err
	}

	outDir := flagGuideOutDir
	if outDir == "" {
		outDir = cfg.Output.ExportDir
	}
	writer, err := output.New(outDir)
	if err != nil {
		return err
	}

	client := fetch.New()
	base := cfg.Site.GuideBaseURL

	var refs []crawl.GuideRef
	if flagGuideAll {
		discoverer := &crawl.GuideDiscoverer{Log: log, Fetcher: client}
		refs, err = discoverer.Discover(ctx, strings.TrimSuffix(base, "/")+"/guide")
		if err != nil {
			return err
		}
	} else {
		param := strings.TrimPrefix(args[0], "/")
		refs = []crawl.GuideRef{{
			Name: strings.ReplaceAll(param, "-", " "),
			URL:  crawl.SubpageURL(base, param),
		}}
	}

	segmenter := &parse.Segmenter{
		Classifier: &parse.Classifier{BaseURL: base},
		Log:        log,
	}

	var errCount int
	for i, ref := range refs {
		log.Info(fmt.Sprintf("[%d/%d] Processing %s", i+1, len(refs), ref.URL))

		page, err := fetchGuidePage(ctx, client, segmenter, ref)
		if err != nil {
			log.Warn("skipping page", "page", ref.Name, "error", err)
			errCount++
			continue
		}

		data, err := renderer.Render(page)
		if err != nil {
			log.Warn("rendering failed", "page", ref.Name, "error", err)
			errCount++
			continue
		}

		path, err := writer.Write(ref.Name, data, renderer.Extension())
		if err != nil {
			log.Warn("writing failed", "page", ref.Name, "error", err)
			errCount++
			continue
		}
		log.Info("Written " + path)
	}

	if errCount > 0 {
		log.Warn(fmt.Sprintf("%d/%d pages failed", errCount, len(refs)))
	}
	return nil
}

// fetchGuidePage loads one guide page and parses its step structure.
func fetchGuidePage(ctx context.Context, client core.Fetcher, segmenter *parse.Segmenter, ref crawl.GuideRef) (*core.GuidePage, error) {
	pageHTML, err := guidePageHTML(ctx, client, ref.URL)
	if err != nil {
		return nil, err
	}

	article, err := parse.ArticleHTML(pageHTML)
	if err != nil {
		return nil, err
	}
	sections, err := parse.SectionsFromHTML(pageHTML)
	if err != nil {
		return nil, err
	}

	return &core.GuidePage{
		Name:  ref.Name,
		URL:   ref.URL,
		Steps: segmenter.Segment(sections),
		HTML:  article,
	}, nil
}

func guidePageHTML(ctx context.Context, client core.Fetcher, url string) (string, error) {
	if !flagGuideRender {
		result, err := client.Fetch(ctx, url)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	}

	sess, err := browser.NewChromeSession(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, url); err != nil {
		return "", err
	}
	if err := sess.WaitVisible(ctx, "body main article", 10*time.Second); err != nil {
		return "", err
	}
	body, err := sess.Query(ctx, core.ByCSS, "html")
	if err != nil {
		return "", err
	}
	return body.OuterHTML(ctx)
}

// selectGuideRenderer creates the Renderer matching the format flags.
func selectGuideRenderer() (core.Renderer, error) {
	count := 0
	for _, set := range []bool{flagGuideMarkdown, flagGuidePDF, flagGuideJSON} {
		if set {
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one output format is required: --markdown, --pdf, or --json")
	}

	switch {
	case flagGuideMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagGuidePDF:
		return render.NewPDFRenderer(), nil
	default:
		return render.NewJSONRenderer(), nil
	}
}
