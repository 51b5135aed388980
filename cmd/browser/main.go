// Command browser fetches or reads an HTML page, parses it, lays it out,
// and prints the resulting flat display-item list.
package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/andrewchen-dev/minibrowser/css"
	"github.com/andrewchen-dev/minibrowser/dom"
	"github.com/andrewchen-dev/minibrowser/html"
	"github.com/andrewchen-dev/minibrowser/httpclient"
	"github.com/andrewchen-dev/minibrowser/layout"
	applog "github.com/andrewchen-dev/minibrowser/log"
)

// viewportWidth is the fixed content width the root block lays out against.
const viewportWidth = 800

func main() {
	applog.SetPrefix("browser")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: browser <url-or-html-file>")
		os.Exit(1)
	}

	source, err := load(os.Args[1])
	if err != nil {
		applog.Errorf("load %q: %v", os.Args[1], err)
		os.Exit(1)
	}

	win := html.Parse(source)
	applog.Debug("parsed DOM tree")

	stylesheet, err := css.Parse(extractEmbeddedCSS(source))
	if err != nil {
		applog.Warnf("CSS parse error: %v", err)
		stylesheet = &css.Stylesheet{}
	}
	applog.Debugf("parsed %d CSS rules (accepted, not yet matched)", len(stylesheet.Rules))

	body := win.Document.FirstDescendantByKind(dom.KindBody)
	if body == nil {
		applog.Warn("document has no body element; nothing to lay out")
		return
	}

	obj := layout.Build(body, stylesheet)
	if obj == nil {
		applog.Warn("body resolved to display:none; nothing to lay out")
		return
	}
	boxTree := layout.BuildBoxTree(obj)
	positioned := layout.Position(boxTree, viewportWidth)
	items := layout.Paint(positioned)

	for _, item := range items {
		printItem(item)
	}
}

// load fetches target over HTTP when it's a URL, or reads it as a local
// file otherwise.
func load(target string) (string, error) {
	if !isURL(target) {
		content, err := os.ReadFile(target)
		return string(content), err
	}

	host, port, path, err := parseTarget(target)
	if err != nil {
		return "", err
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", fmt.Errorf("invalid port %q: %w", port, err)
	}

	applog.Infof("fetching http://%s:%s%s", host, port, path)
	resp, err := httpclient.Get(host, portNum, path)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		applog.Warnf("non-200 response: %d %s", resp.StatusCode, resp.Reason)
	}
	return resp.Body, nil
}

// isURL reports whether target names an http(s) resource rather than a
// local file path.
func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// parseTarget splits a URL like "http://example.com:8080/index.html" into
// the (host, port, path) triple httpclient.Get expects. Port defaults to 80
// when absent; path defaults to "/" when absent, never doubled by the
// client (see httpclient.Get).
func parseTarget(raw string) (host, port, path string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", "", err
	}
	if u.Host == "" {
		return "", "", "", fmt.Errorf("missing host in %q", raw)
	}

	host = u.Hostname()
	port = u.Port()
	if port == "" {
		port = "80"
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return host, port, path, nil
}

// extractEmbeddedCSS pulls the text content of <style> elements out of raw
// HTML, ahead of a real inline-stylesheet collection pass.
func extractEmbeddedCSS(rawHTML string) string {
	const open, close = "<style>", "</style>"
	var b strings.Builder
	rest := rawHTML
	for {
		start := strings.Index(rest, open)
		if start == -1 {
			break
		}
		rest = rest[start+len(open):]
		end := strings.Index(rest, close)
		if end == -1 {
			break
		}
		b.WriteString(rest[:end])
		b.WriteByte('\n')
		rest = rest[end+len(close):]
	}
	return b.String()
}

func printItem(item layout.DisplayItem) {
	switch v := item.(type) {
	case layout.RectItem:
		fmt.Printf("rect  x=%d y=%d w=%d h=%d\n", v.Point.X, v.Point.Y, v.Size.W, v.Size.H)
	case layout.TextItem:
		fmt.Printf("text  x=%d y=%d %q\n", v.Point.X, v.Point.Y, v.Text)
	}
}
