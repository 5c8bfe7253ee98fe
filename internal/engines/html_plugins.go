package engines

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// stripCommentsPlugin removes HTML comments. Conditional comments
// ("<!--[if IE]>") are kept.
func stripCommentsPlugin() Plugin {
	return NewPlugin("strip-comments", func(_ context.Context, source string, opts Options) (string, error) {
		return rewriteMarkup("strip-comments", source, opts, func(n *html.Node) {
			removeNodes(n, func(c *html.Node) bool {
				return c.Type == html.CommentNode && !strings.HasPrefix(c.Data, "[if")
			})
		})
	})
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespacePlugin collapses runs of whitespace in text nodes to a
// single space, leaving pre, textarea, script and style content untouched.
func collapseWhitespacePlugin() Plugin {
	return NewPlugin("collapse-whitespace", func(_ context.Context, source string, opts Options) (string, error) {
		return rewriteMarkup("collapse-whitespace", source, opts, collapseText)
	})
}

func collapseText(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Pre, atom.Textarea, atom.Script, atom.Style:
			return
		}
	}
	if n.Type == html.TextNode {
		n.Data = whitespaceRun.ReplaceAllString(n.Data, " ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collapseText(c)
	}
}

// removeNodes deletes every descendant of n matching drop.
func removeNodes(n *html.Node, drop func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if drop(c) {
			n.RemoveChild(c)
		} else {
			removeNodes(c, drop)
		}
		c = next
	}
}

// isDocument reports whether source is a full document rather than a fragment.
func isDocument(source string) bool {
	head := strings.ToLower(source)
	if len(head) > 1024 {
		head = head[:1024]
	}
	return strings.Contains(head, "<!doctype") || strings.Contains(head, "<html")
}

// rewriteMarkup parses source, applies fn to the tree and renders it back.
// Fragments are parsed in a body context so no html/head/body wrapper is
// introduced.
func rewriteMarkup(plugin, source string, opts Options, fn func(*html.Node)) (string, error) {
	from, _ := opts.String("from")
	var b strings.Builder

	if isDocument(source) {
		doc, err := html.Parse(strings.NewReader(source))
		if err != nil {
			return "", &Error{Engine: "markup", Plugin: plugin, File: from, Message: err.Error()}
		}
		fn(doc)
		if err := html.Render(&b, doc); err != nil {
			return "", err
		}
		return b.String(), nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(source), body)
	if err != nil {
		return "", &Error{Engine: "markup", Plugin: plugin, File: from, Message: err.Error()}
	}

	// Attach the fragment to a scratch root so fn sees it as one tree
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	fn(root)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
