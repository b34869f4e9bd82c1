package graph

// Layer ids for the two standard annotation layers
const (
	Layer0ID = "0"
	Layer1ID = "1"
)

// Node tags classifying the role of a node within its layer
const (
	// Terminal layer node tags
	TagWord  = "Word"
	TagPunct = "Punct"

	// Foundational layer node tags
	TagFoundational = "FN"
	TagPunctuation  = "PNCT"
	TagLinkage      = "LKG"
)

// EdgeTags are the role labels carried by foundational-layer edges.
// The single-letter codes match the legacy site markup identically.
const (
	EdgeTagParallelScene = "H"
	EdgeTagParticipant   = "A"
	EdgeTagProcess       = "P"
	EdgeTagState         = "S"
	EdgeTagAdverbial     = "D"
	EdgeTagGround        = "G"
	EdgeTagCenter        = "C"
	EdgeTagElaborator    = "E"
	EdgeTagFunction      = "F"
	EdgeTagConnector     = "N"
	EdgeTagRelator       = "R"
	EdgeTagLinker        = "L"
	EdgeTagLinkRelation  = "LR"
	EdgeTagLinkArgument  = "LA"
	EdgeTagPunctuation   = "U"
	EdgeTagTerminal      = "Terminal"
)

// Attribute keys with structural meaning
const (
	// AttribRemote marks an edge as a secondary semantic reference that does
	// not make its source the child's primary parent
	AttribRemote = "remote"

	// AttribImplicit marks a node that represents an elided element and
	// carries no terminal descendants
	AttribImplicit = "implicit"

	// Terminal layer attribute keys
	AttribText         = "text"
	AttribParagraph    = "paragraph"
	AttribParaPosition = "paragraph_position"
)
