package sexp

import (
	"fmt"
	"io"
	"strconv"
)

// Node is one element of a parsed s-expression tree. A leaf holds Atom;
// a list holds List. Quoted records whether a leaf came from a quoted
// string, which distinguishes the symbol yes from the value "yes".
type Node struct {
	Atom   string
	Quoted bool
	List   []*Node
}

// IsLeaf reports whether the node is an atom rather than a list.
func (n *Node) IsLeaf() bool {
	return n.List == nil
}

// Name returns the leading symbol of a list node, or "" for leaves and
// empty lists. KiCad lists are always keyed this way: (key value ...).
func (n *Node) Name() string {
	if n.IsLeaf() || len(n.List) == 0 {
		return ""
	}
	return n.List[0].Atom
}

// Find returns the first child list (or leaf symbol) with the given key.
func (n *Node) Find(key string) (*Node, bool) {
	if n.IsLeaf() {
		return nil, false
	}
	for _, child := range n.List {
		if child.IsLeaf() {
			if child.Atom == key && !child.Quoted {
				return child, true
			}
			continue
		}
		if child.Name() == key {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns every child list with the given key, in order.
func (n *Node) FindAll(key string) []*Node {
	var out []*Node
	if n.IsLeaf() {
		return out
	}
	for _, child := range n.List {
		if !child.IsLeaf() && child.Name() == key {
			out = append(out, child)
		}
	}
	return out
}

// Str returns the atom at the given index of a list node ("" when absent).
// Index 0 is the key, 1 the first value.
func (n *Node) Str(index int) string {
	if n.IsLeaf() || index < 0 || index >= len(n.List) {
		return ""
	}
	if !n.List[index].IsLeaf() {
		return ""
	}
	return n.List[index].Atom
}

// Int returns the atom at the given index parsed as an integer.
func (n *Node) Int(index int) (int, error) {
	s := n.Str(index)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not an integer at index %d: %q", index, s)
	}
	return v, nil
}

// YesNo interprets the node's first value as a KiCad boolean. Both the
// modern (key yes|no) form and the legacy bare-symbol form are accepted;
// absence of the node should be handled by the caller's default.
func (n *Node) YesNo() bool {
	return n.Str(1) == "yes"
}

// Parse reads every top-level s-expression from r.
func Parse(r io.Reader) ([]*Node, error) {
	p := &parser{lex: newLexer(r)}
	var out []*Node
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenEOF {
			return out, nil
		}
		node, err := p.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
}

type parser struct {
	lex *lexer
}

func (p *parser) parseFrom(tok token) (*Node, error) {
	switch tok.typ {
	case tokenLeftParen:
		return p.parseList()
	case tokenAtom:
		return &Node{Atom: tok.value}, nil
	case tokenString:
		return &Node{Atom: tok.value, Quoted: true}, nil
	case tokenRightParen:
		return nil, fmt.Errorf("unexpected ')'")
	default:
		return nil, fmt.Errorf("unexpected EOF")
	}
}

func (p *parser) parseList() (*Node, error) {
	node := &Node{List: []*Node{}}
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.typ == tokenRightParen {
			return node, nil
		}
		if tok.typ == tokenEOF {
			return nil, fmt.Errorf("unexpected EOF in list")
		}
		child, err := p.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		node.List = append(node.List, child)
	}
}
