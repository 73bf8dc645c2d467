package rendering

import (
	"context"
	"log"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderPDF rasterizes a composed HTML document to a PDF byte stream using a
// headless browser. Requires Chrome/Chromium to be installed on the system.
// On failure the engine's error is wrapped in a RenderError and no bytes are
// returned. The caller's context bounds the whole run.
func RenderPDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{Message: "PDF rasterization failed", Cause: err}
	}

	log.Printf("[render] PDF generated: %d bytes", len(pdf))
	return pdf, nil
}

// ComposePDF is the full PDF path: Markdown to HTML, HTML into the named
// template's content slot, composed document to PDF bytes.
func ComposePDF(ctx context.Context, markdown, templateName string) ([]byte, error) {
	fragment, err := ToHTML(markdown)
	if err != nil {
		return nil, err
	}
	document, err := RenderTemplate(templateName, fragment)
	if err != nil {
		return nil, err
	}
	return RenderPDF(ctx, document)
}
