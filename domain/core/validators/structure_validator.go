package validators

import (
	"fmt"

	"annograph/domain/core/graph"
	"annograph/pkg/errors"
)

// StructureValidator checks a passage against the structural rules the
// substrate cannot enforce edge by edge: terminals stay leaves, implicit
// units stay empty, punctuation units carry only punctuation, linkages
// keep their shape.
type StructureValidator struct {
	requireTerminalLayer     bool
	requireFoundationalLayer bool
}

// NewStructureValidator creates a validator with the default rules
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{
		requireTerminalLayer:     true,
		requireFoundationalLayer: false,
	}
}

// RequireFoundationalLayer makes the validator reject passages without a
// foundational layer
func (v *StructureValidator) RequireFoundationalLayer() *StructureValidator {
	v.requireFoundationalLayer = true
	return v
}

// Validate checks the whole passage and returns the first violation found
func (v *StructureValidator) Validate(p *graph.Passage) error {
	if err := v.validateLayers(p); err != nil {
		return err
	}
	for _, n := range p.Nodes() {
		if err := v.validateNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (v *StructureValidator) validateLayers(p *graph.Passage) error {
	if v.requireTerminalLayer {
		if _, err := p.Layer(graph.Layer0ID); err != nil {
			return errors.NewValidationError("passage has no terminal layer")
		}
	}
	if v.requireFoundationalLayer {
		if _, err := p.Layer(graph.Layer1ID); err != nil {
			return errors.NewValidationError("passage has no foundational layer")
		}
	}
	return nil
}

func (v *StructureValidator) validateNode(n *graph.Node) error {
	if term, ok := n.AsTerminal(); ok {
		return v.validateTerminal(term)
	}
	if lkg, ok := n.AsLinkage(); ok {
		return v.validateLinkage(lkg)
	}
	if fn, ok := n.AsFNode(); ok {
		return v.validateFNode(fn)
	}
	return nil
}

func (v *StructureValidator) validateTerminal(t *graph.Terminal) error {
	if len(t.Node.Outgoing()) > 0 {
		return errors.NewValidationError(
			fmt.Sprintf("terminal %s has outgoing edges", t.Node.ID()))
	}
	if t.Position() < 1 {
		return errors.NewValidationError(
			fmt.Sprintf("terminal %s has no valid position", t.Node.ID()))
	}
	if t.Paragraph() < 1 || t.ParaPosition() < 1 {
		return errors.NewValidationError(
			fmt.Sprintf("terminal %s has no paragraph placement", t.Node.ID()))
	}
	if !t.Node.Passage().Config().AllowOrphanTerminals && len(t.Node.Incoming()) == 0 {
		return errors.NewValidationError(
			fmt.Sprintf("terminal %s is claimed by no unit", t.Node.ID()))
	}
	return nil
}

func (v *StructureValidator) validateFNode(fn *graph.FNode) error {
	if err := v.validatePrimaryParents(fn); err != nil {
		return err
	}

	if fn.Implicit() && len(fn.GetTerminals(true, false)) > 0 {
		return errors.NewValidationError(
			fmt.Sprintf("implicit unit %s covers terminals", fn.Node.ID()))
	}

	if fn.Node.Tag() == graph.TagPunctuation {
		for _, e := range fn.Node.Outgoing() {
			if e.Tag() != graph.EdgeTagTerminal {
				return errors.NewValidationError(
					fmt.Sprintf("punctuation unit %s has a non-terminal child", fn.Node.ID()))
			}
			if e.Child().Tag() != graph.TagPunct {
				return errors.NewValidationError(
					fmt.Sprintf("punctuation unit %s covers a word terminal", fn.Node.ID()))
			}
		}
	}

	for _, e := range fn.Node.Outgoing() {
		if e.Tag() == graph.EdgeTagTerminal {
			if _, ok := e.Child().AsTerminal(); !ok {
				return errors.NewValidationError(
					fmt.Sprintf("unit %s has a terminal edge to a non-terminal", fn.Node.ID()))
			}
		}
	}
	return nil
}

// validatePrimaryParents audits what the foundational layer's insertion
// policy enforces edge by edge, catching structures assembled without it:
// a unit may have at most one non-remote, non-linkage parent from within
// its layer
func (v *StructureValidator) validatePrimaryParents(fn *graph.FNode) error {
	primaries := 0
	for _, e := range fn.Node.Incoming() {
		if e.Remote() {
			continue
		}
		if e.Source().Layer() != fn.Node.Layer() {
			continue
		}
		if e.Source().Tag() == graph.TagLinkage ||
			e.Tag() == graph.EdgeTagLinkRelation || e.Tag() == graph.EdgeTagLinkArgument {
			continue
		}
		primaries++
	}
	if primaries > 1 {
		return errors.NewValidationError(
			fmt.Sprintf("unit %s has %d primary parents", fn.Node.ID(), primaries))
	}
	return nil
}

func (v *StructureValidator) validateLinkage(lkg *graph.Linkage) error {
	if lkg.Relation() == nil {
		return errors.NewValidationError(
			fmt.Sprintf("linkage %s has no relation", lkg.Node.ID()))
	}
	if len(lkg.Arguments()) == 0 {
		return errors.NewValidationError(
			fmt.Sprintf("linkage %s has no arguments", lkg.Node.ID()))
	}
	for _, e := range lkg.Node.Outgoing() {
		if e.Tag() != graph.EdgeTagLinkRelation && e.Tag() != graph.EdgeTagLinkArgument {
			return errors.NewValidationError(
				fmt.Sprintf("linkage %s has an edge with tag %s", lkg.Node.ID(), e.Tag()))
		}
	}
	return nil
}
