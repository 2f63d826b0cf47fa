package tagtpl

// Node is the tagged-variant element of a compiled template (C4): Text,
// Tag, Loop, Conditional, or PresenceConditional.
type Node interface {
	render(rs *renderState, vars map[string]any) (SafeString, error)
	walkTags(visit tagVisitor)
}

// TextNode is a literal run of template source, copied to output verbatim.
type TextNode struct {
	Content string
}

func (n *TextNode) render(*renderState, map[string]any) (SafeString, error) {
	return HTMLString(n.Content), nil
}
func (n *TextNode) walkTags(tagVisitor) {}

// TagNode wraps a single interpolated Tag.
type TagNode struct {
	Tag *Tag
}

func (n *TagNode) render(rs *renderState, vars map[string]any) (SafeString, error) {
	out, err := renderTag(n.Tag, rs.registry, vars)
	if err != nil {
		if IsRecoverable(err) {
			// §7: a NameError/KeyError from a single Tag node is recovered
			// locally — emit the tag's text (as rebuilt by Tag.String) instead.
			return RawString(n.Tag.String()), nil
		}
		return SafeString{}, err
	}
	return out, nil
}
func (n *TagNode) walkTags(visit tagVisitor) { visit(n.Tag) }

// renderTag resolves tag, applies its function pipeline (or the implicit
// `default` rule when no functions are given and the value isn't already a
// SafeString), and returns the resulting SafeString (§4.4, §4.6).
func renderTag(tag *Tag, registry *FuncRegistry, vars map[string]any) (SafeString, error) {
	value, err := Resolve(tag, vars)
	if err != nil {
		return SafeString{}, err
	}
	if len(tag.Functions) > 0 {
		for _, fn := range tag.Functions {
			value, err = registry.Apply(fn, value)
			if err != nil {
				return SafeString{}, err
			}
		}
	} else if ss, ok := value.(SafeString); !ok || !ss.IsSafe() {
		value, err = registry.Apply(FunctionCall{Name: "default"}, value)
		if err != nil {
			return SafeString{}, err
		}
	}
	return asSafeString(value), nil
}

// LoopNode repeats its Body once per element of SourceTag's resolved value,
// binding either a single alias or unpacking into multiple (§4.6).
type LoopNode struct {
	SourceTag *Tag
	Aliases   []string
	Body      []Node
}

func (n *LoopNode) render(rs *renderState, vars map[string]any) (SafeString, error) {
	value, err := Resolve(n.SourceTag, vars)
	if err != nil {
		// §7's single-Tag-node recovery rule does not extend to a Loop node:
		// the reference implementation's TemplateTag.Iterator only swallows a
		// missing key (KeyError), not a missing tag name (NameError), which
		// propagates as a real error.
		if Kind(err) == KindKeyError {
			return HTMLString(""), nil
		}
		return SafeString{}, err
	}
	for _, fn := range n.SourceTag.Functions {
		value, err = rs.registry.Apply(fn, value)
		if err != nil {
			return SafeString{}, err
		}
	}
	items, err := iterate(value)
	if err != nil {
		return SafeString{}, err
	}
	var out SafeString
	for _, item := range items {
		local := make(map[string]any, len(vars)+len(n.Aliases))
		for k, v := range vars {
			local[k] = v
		}
		if len(n.Aliases) == 1 {
			local[n.Aliases[0]] = item
		} else {
			parts, err := unpack(item, len(n.Aliases))
			if err != nil {
				return SafeString{}, err
			}
			for i, alias := range n.Aliases {
				local[alias] = parts[i]
			}
		}
		for _, child := range n.Body {
			piece, err := child.render(rs, local)
			if err != nil {
				return SafeString{}, err
			}
			out = out.Concat(piece)
		}
	}
	return out, nil
}

func (n *LoopNode) walkTags(visit tagVisitor) {
	visit(n.SourceTag)
	for _, c := range n.Body {
		c.walkTags(visit)
	}
}

// CondBranch is one branch of a CondNode: either a boolean Expr (plain
// conditional) or a list of Tags to check presence of (presence
// conditional), guarding Body.
type CondBranch struct {
	Expr ExprNode
	Tags []*Tag
	Body []Node
}

// CondNode backs both the Conditional and PresenceConditional node variants
// from §3: Presence selects which evaluation rule applies to each branch,
// and Invert flips a presence check into an absence check ({{ ifnotpresent }}).
type CondNode struct {
	Presence    bool
	Invert      bool
	Branches    []CondBranch
	Default     []Node
	defaultOpen bool
}

func (n *CondNode) render(rs *renderState, vars map[string]any) (SafeString, error) {
	for _, br := range n.Branches {
		ok, err := n.branchTrue(br, vars, rs.registry)
		if err != nil {
			return SafeString{}, err
		}
		if ok {
			return renderBody(rs, vars, br.Body)
		}
	}
	if n.Default != nil {
		return renderBody(rs, vars, n.Default)
	}
	return HTMLString(""), nil
}

func (n *CondNode) branchTrue(br CondBranch, vars map[string]any, registry *FuncRegistry) (bool, error) {
	if !n.Presence {
		v, err := br.Expr.eval(vars, registry)
		if err != nil {
			return false, err
		}
		return truthy(v), nil
	}
	allPresent := true
	for _, t := range br.Tags {
		if _, err := Resolve(t, vars); err != nil {
			if IsRecoverable(err) {
				allPresent = false
				break
			}
			return false, err
		}
	}
	if n.Invert {
		return !allPresent, nil
	}
	return allPresent, nil
}

func (n *CondNode) walkTags(visit tagVisitor) {
	for _, br := range n.Branches {
		if br.Expr != nil {
			br.Expr.walkTags(visit)
		}
		for _, t := range br.Tags {
			visit(t)
		}
		for _, c := range br.Body {
			c.walkTags(visit)
		}
	}
	for _, c := range n.Default {
		c.walkTags(visit)
	}
}

func renderBody(rs *renderState, vars map[string]any, body []Node) (SafeString, error) {
	var out SafeString
	for _, n := range body {
		piece, err := n.render(rs, vars)
		if err != nil {
			return SafeString{}, err
		}
		out = out.Concat(piece)
	}
	return out, nil
}

// renderState carries the per-render function registry threaded through the
// node tree's render calls.
type renderState struct {
	registry *FuncRegistry
}

// noParseCollector accumulates resolved tag text during RenderNoParse
// (§4.6), keyed by each tag's literal source so repeated tags collapse.
type noParseCollector struct {
	tags map[string]string
}
