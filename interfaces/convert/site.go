package convert

import (
	"io"
	"strings"

	"github.com/antchfx/xmlquery"

	"annograph/domain/core/graph"
	pkgerrors "annograph/pkg/errors"
)

// siteImport carries the state of one legacy document import
type siteImport struct {
	passage *graph.Passage
	l0      *graph.Layer0
	l1      *graph.Layer1

	terminals map[string]*graph.Terminal
	units     map[string]*graph.FNode
	used      map[*graph.Node]bool
}

// FromSite imports a passage from the legacy annotation-site markup. The
// document carries the tokenized text grouped into paragraphs and a unit
// tree referencing tokens by id; remote edges and linkages reference units
// by id and are resolved after the tree is built. Tokens no unit claims are
// attached directly under the head.
func FromSite(r io.Reader) (*graph.Passage, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, pkgerrors.NewValidationError("malformed site document: " + err.Error())
	}

	root := xmlquery.FindOne(doc, "//passage")
	if root == nil {
		return nil, pkgerrors.NewValidationError("site document has no passage element")
	}
	id := root.SelectAttr("passageID")
	if id == "" {
		return nil, pkgerrors.NewValidationError("site passage has no passageID")
	}

	imp := &siteImport{
		passage:   graph.NewPassage(id),
		terminals: make(map[string]*graph.Terminal),
		units:     make(map[string]*graph.FNode),
		used:      make(map[*graph.Node]bool),
	}
	if imp.l0, err = graph.NewLayer0(imp.passage); err != nil {
		return nil, err
	}
	if imp.l1, err = graph.NewLayer1(imp.passage); err != nil {
		return nil, err
	}

	if err := imp.readText(root); err != nil {
		return nil, err
	}
	if err := imp.readUnits(root); err != nil {
		return nil, err
	}
	if err := imp.attachUnused(); err != nil {
		return nil, err
	}
	if err := imp.readRemotes(root); err != nil {
		return nil, err
	}
	if err := imp.readLinkages(root); err != nil {
		return nil, err
	}

	return imp.passage, nil
}

func (imp *siteImport) readText(root *xmlquery.Node) error {
	paragraphs := xmlquery.Find(root, "text/paragraph")
	if len(paragraphs) == 0 {
		return pkgerrors.NewValidationError("site passage has no paragraphs")
	}
	for i, para := range paragraphs {
		for _, word := range xmlquery.Find(para, "word") {
			wid := word.SelectAttr("id")
			if wid == "" {
				return pkgerrors.NewValidationError("site word has no id")
			}
			if _, dup := imp.terminals[wid]; dup {
				return pkgerrors.NewValidationError("site word id " + wid + " is not unique")
			}
			punct := word.SelectAttr("punct") == "true"
			term, err := imp.l0.AddTerminalInParagraph(word.SelectAttr("text"), punct, i+1)
			if err != nil {
				return err
			}
			imp.terminals[wid] = term
		}
	}
	return nil
}

func (imp *siteImport) readUnits(root *xmlquery.Node) error {
	for _, elem := range xmlquery.Find(root, "annotation/unit") {
		if _, err := imp.buildUnit(nil, elem); err != nil {
			return err
		}
	}
	return nil
}

func (imp *siteImport) buildUnit(parent *graph.FNode, elem *xmlquery.Node) (*graph.FNode, error) {
	tag := elem.SelectAttr("type")
	if tag == "" {
		return nil, pkgerrors.NewValidationError("site unit has no type")
	}

	var unit *graph.FNode
	var err error
	switch {
	case tag == graph.EdgeTagPunctuation:
		return imp.buildPunctUnit(parent, elem)
	case elem.SelectAttr("implicit") == "true":
		unit, err = imp.l1.AddImplicitFNode(parent, tag)
	default:
		unit, err = imp.l1.AddFNode(parent, tag)
	}
	if err != nil {
		return nil, err
	}

	if elem.SelectAttr("uncertain") == "true" {
		unit.Node.Attrib()["uncertain"] = true
	}
	if remarks := elem.SelectAttr("remarks"); remarks != "" {
		unit.Node.Extra()["remarks"] = remarks
	}
	if uid := elem.SelectAttr("id"); uid != "" {
		if _, dup := imp.units[uid]; dup {
			return nil, pkgerrors.NewValidationError("site unit id " + uid + " is not unique")
		}
		imp.units[uid] = unit
	}

	for child := elem.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != xmlquery.ElementNode {
			continue
		}
		switch child.Data {
		case "unit":
			if _, err := imp.buildUnit(unit, child); err != nil {
				return nil, err
			}
		case "ref":
			if err := imp.attachRef(unit, child); err != nil {
				return nil, err
			}
		default:
			return nil, pkgerrors.NewValidationError("unexpected site element " + child.Data)
		}
	}
	return unit, nil
}

// buildPunctUnit turns an explicit punctuation unit into the dedicated
// punctuation node the foundational layer uses
func (imp *siteImport) buildPunctUnit(parent *graph.FNode, elem *xmlquery.Node) (*graph.FNode, error) {
	refs := xmlquery.Find(elem, "ref")
	if len(refs) != 1 {
		return nil, pkgerrors.NewValidationError("punctuation unit must reference exactly one token")
	}
	term, err := imp.lookupTerminal(refs[0])
	if err != nil {
		return nil, err
	}
	imp.used[term.Node] = true
	return imp.l1.AddPunct(parent, term)
}

func (imp *siteImport) attachRef(unit *graph.FNode, elem *xmlquery.Node) error {
	term, err := imp.lookupTerminal(elem)
	if err != nil {
		return err
	}
	imp.used[term.Node] = true
	if term.Punct() {
		_, err = imp.l1.AddPunct(unit, term)
		return err
	}
	_, err = unit.Node.Add(graph.EdgeTagTerminal, term.Node)
	return err
}

func (imp *siteImport) lookupTerminal(ref *xmlquery.Node) (*graph.Terminal, error) {
	wid := ref.SelectAttr("word")
	term, ok := imp.terminals[wid]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("site word " + wid)
	}
	return term, nil
}

// attachUnused hangs every token no unit claimed directly under the head,
// punctuation behind its dedicated wrapper unit. Tokens are visited in
// reading order so wrapper ids stay deterministic.
func (imp *siteImport) attachUnused() error {
	head := imp.l1.Head()
	for _, term := range imp.l0.All() {
		if imp.used[term.Node] {
			continue
		}
		if term.Punct() {
			if _, err := imp.l1.AddPunct(nil, term); err != nil {
				return err
			}
			continue
		}
		if _, err := head.Node.Add(graph.EdgeTagTerminal, term.Node); err != nil {
			return err
		}
	}
	return nil
}

func (imp *siteImport) readRemotes(root *xmlquery.Node) error {
	for _, elem := range xmlquery.Find(root, "annotation/remote") {
		parent, err := imp.lookupUnit(elem.SelectAttr("parent"))
		if err != nil {
			return err
		}
		child, err := imp.lookupUnit(elem.SelectAttr("child"))
		if err != nil {
			return err
		}
		tag := elem.SelectAttr("type")
		if tag == "" {
			return pkgerrors.NewValidationError("site remote edge has no type")
		}
		if _, err := imp.l1.AddRemote(parent, tag, child); err != nil {
			return err
		}
	}
	return nil
}

func (imp *siteImport) readLinkages(root *xmlquery.Node) error {
	for _, elem := range xmlquery.Find(root, "annotation/linkage") {
		relation, err := imp.lookupUnit(elem.SelectAttr("relation"))
		if err != nil {
			return err
		}
		var args []*graph.FNode
		for _, aid := range strings.Fields(elem.SelectAttr("arguments")) {
			arg, err := imp.lookupUnit(aid)
			if err != nil {
				return err
			}
			args = append(args, arg)
		}
		if _, err := imp.l1.AddLinkage(relation, args...); err != nil {
			return err
		}
	}
	return nil
}

func (imp *siteImport) lookupUnit(uid string) (*graph.FNode, error) {
	if uid == "" {
		return nil, pkgerrors.NewValidationError("site element references an empty unit id")
	}
	unit, ok := imp.units[uid]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("site unit " + uid)
	}
	return unit, nil
}
