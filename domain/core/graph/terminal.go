package graph

import (
	"iter"
	"strconv"

	pkgerrors "annograph/pkg/errors"
)

// Layer0 is the terminal layer: the typed view over layer "0" holding the
// tokenized text. Terminals are leaves by convention and their position is
// their 1-based order of insertion, encoded in the node id.
type Layer0 struct {
	layer *Layer
}

// NewLayer0 creates the terminal layer in the passage
func NewLayer0(p *Passage) (*Layer0, error) {
	layer, err := NewLayer(p, Layer0ID)
	if err != nil {
		return nil, err
	}
	return &Layer0{layer: layer}, nil
}

// Layer0Of returns the terminal-layer view of an existing passage
func Layer0Of(p *Passage) (*Layer0, error) {
	layer, err := p.Layer(Layer0ID)
	if err != nil {
		return nil, err
	}
	return &Layer0{layer: layer}, nil
}

// Layer returns the underlying layer
func (l0 *Layer0) Layer() *Layer {
	return l0.layer
}

// AddTerminal appends a token to the current paragraph. The first terminal
// opens paragraph 1.
func (l0 *Layer0) AddTerminal(text string, punct bool) (*Terminal, error) {
	paragraph := 1
	if terms := l0.All(); len(terms) > 0 {
		paragraph = terms[len(terms)-1].Paragraph()
	}
	return l0.AddTerminalInParagraph(text, punct, paragraph)
}

// AddTerminalInParagraph appends a token to the given paragraph. The
// position within the paragraph restarts at 1 whenever the paragraph
// differs from the previous token's, and counts up from it otherwise.
func (l0 *Layer0) AddTerminalInParagraph(text string, punct bool, paragraph int) (*Terminal, error) {
	paraPos := 1
	if terms := l0.All(); len(terms) > 0 {
		if last := terms[len(terms)-1]; last.Paragraph() == paragraph {
			paraPos = last.ParaPosition() + 1
		}
	}
	return l0.AddTerminalAt(text, punct, paragraph, paraPos)
}

// AddTerminalAt appends a token with an explicit position within its
// paragraph, for callers that carry their own numbering
func (l0 *Layer0) AddTerminalAt(text string, punct bool, paragraph, paraPos int) (*Terminal, error) {
	if paragraph < 1 {
		return nil, pkgerrors.NewValidationError("paragraph numbers start at 1")
	}
	if paraPos < 1 {
		return nil, pkgerrors.NewValidationError("paragraph positions start at 1")
	}
	p := l0.layer.passage
	if max := p.cfg.MaxTerminalTextLength; max > 0 && len(text) > max {
		return nil, pkgerrors.NewValidationError("terminal text exceeds maximum length")
	}

	tag := TagWord
	if punct {
		tag = TagPunct
	}

	node, err := NewNode(p, p.NextID(Layer0ID), tag, WithNodeAttrib(map[string]interface{}{
		AttribText:         text,
		AttribParagraph:    paragraph,
		AttribParaPosition: paraPos,
	}))
	if err != nil {
		return nil, err
	}
	return &Terminal{Node: node}, nil
}

// All returns every terminal in reading order
func (l0 *Layer0) All() []*Terminal {
	nodes := l0.layer.All()
	terms := make([]*Terminal, len(nodes))
	for i, n := range nodes {
		terms[i] = &Terminal{Node: n}
	}
	return terms
}

// ByPosition returns the terminal at the given 1-based global position
func (l0 *Layer0) ByPosition(position int) (*Terminal, error) {
	node, err := l0.layer.passage.Node(Layer0ID + "." + strconv.Itoa(position))
	if err != nil {
		return nil, err
	}
	return &Terminal{Node: node}, nil
}

// Words yields the non-punctuation terminals in reading order. The sequence
// is lazy and restartable.
func (l0 *Layer0) Words() iter.Seq[*Terminal] {
	return func(yield func(*Terminal) bool) {
		for _, t := range l0.All() {
			if t.Punct() {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Pairs yields every terminal keyed by its global position, in reading
// order
func (l0 *Layer0) Pairs() iter.Seq2[int, *Terminal] {
	return func(yield func(int, *Terminal) bool) {
		for _, t := range l0.All() {
			if !yield(t.Position(), t) {
				return
			}
		}
	}
}

// Terminal is the terminal-layer view of a node
type Terminal struct {
	Node *Node
}

// Text returns the token's surface text
func (t *Terminal) Text() string {
	s, _ := t.Node.attrib[AttribText].(string)
	return s
}

// Punct reports whether the token is punctuation
func (t *Terminal) Punct() bool {
	return t.Node.tag == TagPunct
}

// Position returns the 1-based global reading position of the token
func (t *Terminal) Position() int {
	return t.Node.id.Sequence()
}

// Paragraph returns the 1-based paragraph number of the token
func (t *Terminal) Paragraph() int {
	return asInt(t.Node.attrib[AttribParagraph])
}

// ParaPosition returns the token's 1-based position within its paragraph
func (t *Terminal) ParaPosition() int {
	return asInt(t.Node.attrib[AttribParaPosition])
}

// asInt tolerates the float64 that JSON decoding produces for numbers
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
