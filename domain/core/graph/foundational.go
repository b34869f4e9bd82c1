package graph

import (
	"sort"
	"strings"

	pkgerrors "annograph/pkg/errors"
)

// Layer1 is the foundational layer: the typed view over layer "1" holding
// the scene structure built above the terminals. The layer always carries a
// head unit under which the whole analysis hangs, and it enforces the
// single-primary-parent rule for its own nodes through the layer's edge
// policy. Remote edges and linkage edges are exempt from that rule.
type Layer1 struct {
	layer *Layer
	head  *Node
}

// NewLayer1 creates the foundational layer in the passage, including its
// head unit
func NewLayer1(p *Passage) (*Layer1, error) {
	layer, err := NewLayer(p, Layer1ID)
	if err != nil {
		return nil, err
	}

	l1 := &Layer1{layer: layer}
	layer.headSkip = l1.structureExempt
	layer.edgePolicy = l1.checkPrimaryParent

	head, err := NewNode(p, p.NextID(Layer1ID), TagFoundational)
	if err != nil {
		return nil, err
	}
	l1.head = head

	return l1, nil
}

// Layer1Of returns the foundational-layer view of an existing passage. The
// head unit is located by its conventional id.
func Layer1Of(p *Passage) (*Layer1, error) {
	layer, err := p.Layer(Layer1ID)
	if err != nil {
		return nil, err
	}
	head, err := p.Node(Layer1ID + ".1")
	if err != nil {
		return nil, err
	}
	l1 := &Layer1{layer: layer, head: head}
	if layer.edgePolicy == nil {
		layer.headSkip = l1.structureExempt
		layer.edgePolicy = l1.checkPrimaryParent
	}
	return l1, nil
}

// Layer returns the underlying layer
func (l1 *Layer1) Layer() *Layer {
	return l1.layer
}

// Head returns the head unit of the analysis
func (l1 *Layer1) Head() *FNode {
	return &FNode{Node: l1.head}
}

// structureExempt reports whether an edge carries no ownership: linkage
// edges never make their child a non-head
func (l1 *Layer1) structureExempt(e *Edge) bool {
	return e.source.tag == TagLinkage ||
		e.tag == EdgeTagLinkRelation || e.tag == EdgeTagLinkArgument
}

// checkPrimaryParent vetoes a second primary parent for a foundational
// node. Only non-remote, non-linkage edges from within the layer count as
// primary.
func (l1 *Layer1) checkPrimaryParent(e *Edge) error {
	if e.Remote() || l1.structureExempt(e) || e.source.layer != l1.layer {
		return nil
	}
	for _, in := range e.child.incoming {
		if in.Remote() || l1.structureExempt(in) || in.source.layer != l1.layer {
			continue
		}
		return pkgerrors.NewMultiplePrimaryParentsError(
			e.child.id.String(), in.source.id.String(), e.source.id.String())
	}
	return nil
}

// AddFNode creates a foundational unit under the given parent, attached
// with the given edge tag. A nil parent attaches to the head.
func (l1 *Layer1) AddFNode(parent *FNode, tag string) (*FNode, error) {
	return l1.addUnit(parent, tag, TagFoundational, nil)
}

// AddImplicitFNode creates a unit standing for an elided element. Implicit
// units never carry terminals.
func (l1 *Layer1) AddImplicitFNode(parent *FNode, tag string) (*FNode, error) {
	if tag == EdgeTagPunctuation {
		return nil, pkgerrors.NewInvalidConfigurationError("punctuation units cannot be implicit")
	}
	return l1.addUnit(parent, tag, TagFoundational, map[string]interface{}{
		AttribImplicit: true,
	})
}

// AddPunct attaches a terminal punctuation token under a dedicated
// punctuation unit. A nil parent attaches to the head.
func (l1 *Layer1) AddPunct(parent *FNode, terminal *Terminal) (*FNode, error) {
	if terminal == nil {
		return nil, pkgerrors.NewValidationError("punctuation terminal cannot be nil")
	}
	punct, err := l1.addUnit(parent, EdgeTagPunctuation, TagPunctuation, nil)
	if err != nil {
		return nil, err
	}
	if _, err := punct.Node.Add(EdgeTagTerminal, terminal.Node); err != nil {
		punct.Node.Destroy()
		return nil, err
	}
	return punct, nil
}

// AddRemote adds a secondary reference edge from parent to an existing
// unit
func (l1 *Layer1) AddRemote(parent *FNode, tag string, child *FNode) (*Edge, error) {
	if parent == nil || child == nil {
		return nil, pkgerrors.NewValidationError("remote edges need both a parent and a child")
	}
	return parent.Node.AddWithAttrib(tag, child.Node, map[string]interface{}{
		AttribRemote: true,
	})
}

// AddLinkage creates a linkage relating existing units: one relation and
// one or more arguments. Linkages sit beside the structure and never claim
// ownership of their targets.
func (l1 *Layer1) AddLinkage(relation *FNode, args ...*FNode) (*Linkage, error) {
	if relation == nil {
		return nil, pkgerrors.NewValidationError("linkage relation cannot be nil")
	}
	if len(args) == 0 {
		return nil, pkgerrors.NewValidationError("linkage needs at least one argument")
	}

	p := l1.layer.passage
	node, err := NewNode(p, p.NextID(Layer1ID), TagLinkage)
	if err != nil {
		return nil, err
	}
	if _, err := node.Add(EdgeTagLinkRelation, relation.Node); err != nil {
		node.Destroy()
		return nil, err
	}
	for _, arg := range args {
		if arg == nil {
			node.Destroy()
			return nil, pkgerrors.NewValidationError("linkage argument cannot be nil")
		}
		if _, err := node.Add(EdgeTagLinkArgument, arg.Node); err != nil {
			node.Destroy()
			return nil, err
		}
	}
	return &Linkage{Node: node}, nil
}

func (l1 *Layer1) addUnit(parent *FNode, edgeTag, nodeTag string, attrib map[string]interface{}) (*FNode, error) {
	parentNode := l1.head
	if parent != nil {
		parentNode = parent.Node
	}

	p := l1.layer.passage
	node, err := NewNode(p, p.NextID(Layer1ID), nodeTag, WithNodeAttrib(attrib))
	if err != nil {
		return nil, err
	}
	if _, err := parentNode.Add(edgeTag, node); err != nil {
		node.Destroy()
		return nil, err
	}
	return &FNode{Node: node}, nil
}

// All returns every node of the layer in the layer's order
func (l1 *Layer1) All() []*Node {
	return l1.layer.All()
}

// Heads returns the roots of the layer, the head unit and any linkages
// among them
func (l1 *Layer1) Heads() []*Node {
	return l1.layer.Heads()
}

// Scenes returns every unit describing a scene, in layer order
func (l1 *Layer1) Scenes() []*FNode {
	var scenes []*FNode
	for _, n := range l1.layer.All() {
		if fn, ok := n.AsFNode(); ok && fn.IsScene() {
			scenes = append(scenes, fn)
		}
	}
	return scenes
}

// TopScenes returns the scenes not nested, directly or transitively, inside
// another scene
func (l1 *Layer1) TopScenes() []*FNode {
	var top []*FNode
	for _, fn := range l1.Scenes() {
		if !nestedInScene(fn) {
			top = append(top, fn)
		}
	}
	return top
}

// Linkages returns every linkage of the layer, in layer order
func (l1 *Layer1) Linkages() []*Linkage {
	var linkages []*Linkage
	for _, n := range l1.layer.All() {
		if lkg, ok := n.AsLinkage(); ok {
			linkages = append(linkages, lkg)
		}
	}
	return linkages
}

// TopLinkages returns the linkages whose arguments all are top scenes or
// sit inside one
func (l1 *Layer1) TopLinkages() []*Linkage {
	top := make(map[*Node]bool)
	for _, fn := range l1.TopScenes() {
		top[fn.Node] = true
	}

	var linkages []*Linkage
	for _, lkg := range l1.Linkages() {
		if linkageOnTop(lkg, top) {
			linkages = append(linkages, lkg)
		}
	}
	return linkages
}

func linkageOnTop(lkg *Linkage, top map[*Node]bool) bool {
	for _, arg := range lkg.Arguments() {
		if !underTopScene(arg, top) {
			return false
		}
	}
	return true
}

func underTopScene(fn *FNode, top map[*Node]bool) bool {
	for cur := fn; cur != nil; cur = cur.FParent() {
		if top[cur.Node] {
			return true
		}
	}
	return false
}

func nestedInScene(fn *FNode) bool {
	for cur := fn.FParent(); cur != nil; cur = cur.FParent() {
		if cur.IsScene() {
			return true
		}
	}
	return false
}

// FNode is the foundational-layer view of a node
type FNode struct {
	Node *Node
}

// FParent returns the unit's primary parent: the source of its single
// non-remote, non-linkage incoming edge from within the layer. The head
// unit has none.
func (f *FNode) FParent() *FNode {
	for _, e := range f.Node.incoming {
		if e.Remote() {
			continue
		}
		if e.source.layer != f.Node.layer {
			continue
		}
		if e.source.tag == TagLinkage ||
			e.tag == EdgeTagLinkRelation || e.tag == EdgeTagLinkArgument {
			continue
		}
		return &FNode{Node: e.source}
	}
	return nil
}

// Process returns the unit's main evolving relation, if any. Remote
// children count: a scene borrowing its relation is still a scene.
func (f *FNode) Process() *FNode {
	return f.firstChild(EdgeTagProcess)
}

// State returns the unit's main static relation, if any
func (f *FNode) State() *FNode {
	return f.firstChild(EdgeTagState)
}

// IsScene reports whether the unit describes a scene, that is, carries a
// process or a state
func (f *FNode) IsScene() bool {
	return f.Process() != nil || f.State() != nil
}

// ParallelScenes returns the unit's parallel-scene children in edge order
func (f *FNode) ParallelScenes() []*FNode {
	return f.childrenByTag(EdgeTagParallelScene)
}

// Participants returns the unit's participant children in edge order,
// remote participants included
func (f *FNode) Participants() []*FNode {
	return f.childrenByTag(EdgeTagParticipant)
}

// Adverbials returns the unit's adverbial children in edge order
func (f *FNode) Adverbials() []*FNode {
	return f.childrenByTag(EdgeTagAdverbial)
}

// Centers returns the unit's center children in edge order
func (f *FNode) Centers() []*FNode {
	return f.childrenByTag(EdgeTagCenter)
}

// Connectors returns the unit's connector children in edge order
func (f *FNode) Connectors() []*FNode {
	return f.childrenByTag(EdgeTagConnector)
}

// Elaborators returns the unit's elaborator children in edge order
func (f *FNode) Elaborators() []*FNode {
	return f.childrenByTag(EdgeTagElaborator)
}

// Functions returns the unit's function children in edge order
func (f *FNode) Functions() []*FNode {
	return f.childrenByTag(EdgeTagFunction)
}

// Grounds returns the unit's ground children in edge order
func (f *FNode) Grounds() []*FNode {
	return f.childrenByTag(EdgeTagGround)
}

// Linkers returns the unit's linker children in edge order
func (f *FNode) Linkers() []*FNode {
	return f.childrenByTag(EdgeTagLinker)
}

// Relators returns the unit's relator children in edge order
func (f *FNode) Relators() []*FNode {
	return f.childrenByTag(EdgeTagRelator)
}

// Punctuation returns the unit's punctuation children in edge order
func (f *FNode) Punctuation() []*FNode {
	return f.childrenByTag(EdgeTagPunctuation)
}

// Implicit reports whether the unit stands for an elided element
func (f *FNode) Implicit() bool {
	return f.Node.Implicit()
}

// GetTerminals collects the terminals under the unit in reading order.
// Punctuation terminals are included only when punct is set; remote edges
// are followed only when remotes is set. Terminals reachable along more
// than one path appear once.
func (f *FNode) GetTerminals(punct, remotes bool) []*Terminal {
	seen := make(map[*Node]bool)
	var terms []*Terminal
	f.collectTerminals(punct, remotes, seen, &terms)
	sort.Slice(terms, func(i, j int) bool {
		return terms[i].Position() < terms[j].Position()
	})
	return terms
}

func (f *FNode) collectTerminals(punct, remotes bool, seen map[*Node]bool, terms *[]*Terminal) {
	if seen[f.Node] {
		return
	}
	seen[f.Node] = true

	for _, e := range f.Node.outgoing {
		if e.Remote() && !remotes {
			continue
		}
		if !punct && (e.child.tag == TagPunct || e.child.tag == TagPunctuation) {
			continue
		}
		if t, ok := e.child.AsTerminal(); ok {
			if !seen[e.child] {
				seen[e.child] = true
				*terms = append(*terms, t)
			}
			continue
		}
		child := &FNode{Node: e.child}
		child.collectTerminals(punct, remotes, seen, terms)
	}
}

// StartPosition returns the reading position of the unit's first terminal,
// or -1 for a unit without terminals
func (f *FNode) StartPosition() int {
	terms := f.GetTerminals(true, false)
	if len(terms) == 0 {
		return -1
	}
	return terms[0].Position()
}

// EndPosition returns the reading position of the unit's last terminal, or
// -1 for a unit without terminals
func (f *FNode) EndPosition() int {
	terms := f.GetTerminals(true, false)
	if len(terms) == 0 {
		return -1
	}
	return terms[len(terms)-1].Position()
}

// Text returns the unit's covered text, terminals joined by single spaces
func (f *FNode) Text() string {
	terms := f.GetTerminals(true, false)
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.Text()
	}
	return strings.Join(parts, " ")
}

func (f *FNode) firstChild(tag string) *FNode {
	for _, e := range f.Node.outgoing {
		if e.tag == tag {
			return &FNode{Node: e.child}
		}
	}
	return nil
}

func (f *FNode) childrenByTag(tag string) []*FNode {
	var children []*FNode
	for _, e := range f.Node.outgoing {
		if e.tag == tag {
			children = append(children, &FNode{Node: e.child})
		}
	}
	return children
}

// Linkage is the linkage view of a node. Its relation and arguments are
// read off its edges by tag; the edges carry no ownership.
type Linkage struct {
	Node *Node
}

// Relation returns the unit naming the link relation
func (l *Linkage) Relation() *FNode {
	for _, e := range l.Node.outgoing {
		if e.tag == EdgeTagLinkRelation {
			return &FNode{Node: e.child}
		}
	}
	return nil
}

// Arguments returns the linked units in edge order
func (l *Linkage) Arguments() []*FNode {
	var args []*FNode
	for _, e := range l.Node.outgoing {
		if e.tag == EdgeTagLinkArgument {
			args = append(args, &FNode{Node: e.child})
		}
	}
	return args
}
