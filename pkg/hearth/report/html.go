package report

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML writes a standalone page with one table row per step and one column
// per room. Cells carry a light-on or light-off class.
func HTML(w io.Writer, r Report) error {
	title := fmt.Sprintf("%s plan", r.Scenario)

	head := element(atom.Head, nil,
		element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		element(atom.Title, nil, text(title)),
	)

	header := element(atom.Tr, nil, element(atom.Th, nil, text("Step")), element(atom.Th, nil, text("Action")))
	for _, room := range r.Rooms {
		appendChildren(header, element(atom.Th, nil, text(r.Label(room))))
	}
	appendChildren(header, element(atom.Th, nil, text("Lights on")))

	table := element(atom.Table, []html.Attribute{{Key: "class", Val: "plan"}}, element(atom.Thead, nil, header))
	body := element(atom.Tbody, nil)
	for _, step := range r.Steps {
		action := step.Action
		if step.Index == 0 {
			action = "initial"
		}
		row := element(atom.Tr, nil,
			element(atom.Td, nil, text(strconv.Itoa(step.Index))),
			element(atom.Td, nil, text(action)),
		)
		for _, room := range r.Rooms {
			status := step.Status[room]
			appendChildren(row, element(atom.Td, []html.Attribute{{Key: "class", Val: "light-" + status}}, text(status)))
		}
		appendChildren(row, element(atom.Td, nil, text(fmt.Sprintf("%d/%d", step.LightsOn, len(r.Rooms)))))
		appendChildren(body, row)
	}
	appendChildren(table, body)

	summary := fmt.Sprintf("Run %s, %s order, %d steps, %d states expanded.",
		r.RunID, r.Ordering, len(r.Steps)-1, r.Expanded)
	if r.AlreadySatisfied {
		summary = fmt.Sprintf("Run %s: goal already satisfied, nothing to do.", r.RunID)
	}

	page := element(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}},
		head,
		element(atom.Body, nil,
			element(atom.H1, nil, text(title)),
			element(atom.P, nil, text(summary)),
			table,
		),
	)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(page)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	appendChildren(n, children...)
	return n
}

func appendChildren(n *html.Node, children ...*html.Node) {
	for _, c := range children {
		n.AppendChild(c)
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
