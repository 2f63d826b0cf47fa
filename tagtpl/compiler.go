package tagtpl

import "strings"

// Template is the compiled result of C3: an ordered sequence of root-level
// nodes, ready to be rendered repeatedly against different replacements.
// Source retains the original template text (spec's source_ref), needed to
// compute RenderNoParse's PageHash without re-rendering.
type Template struct {
	Source string
	Nodes  []Node
}

// scopeFrame is an append target on the compiler's transient scope stack
// (§4.8). Root, loop bodies, and conditional branches each implement it.
type scopeFrame interface {
	appendNode(n Node)
}

type rootFrame struct{ nodes []Node }

func (f *rootFrame) appendNode(n Node) { f.nodes = append(f.nodes, n) }

type loopFrame struct{ node *LoopNode }

func (f *loopFrame) appendNode(n Node) { f.node.Body = append(f.node.Body, n) }

type condFrame struct{ node *CondNode }

func (f *condFrame) appendNode(n Node) {
	if f.node.defaultOpen {
		f.node.Default = append(f.node.Default, n)
		return
	}
	last := &f.node.Branches[len(f.node.Branches)-1]
	last.Body = append(last.Body, n)
}

// InlineResolver resolves an {{ inline NAME }} directive to the compiled
// nodes of another template, typically backed by a Cache (C9).
type InlineResolver func(name string) ([]Node, error)

type compiler struct {
	scopes  []scopeFrame
	inliner InlineResolver
}

// Compile splits src into Text/Tag nodes and directive-driven structure,
// validating scope balance per §4.2/§4.8. inliner may be nil, in which case
// {{ inline }} directives fail with SyntaxError.
func Compile(src string, inliner InlineResolver) (*Template, error) {
	c := &compiler{scopes: []scopeFrame{&rootFrame{}}, inliner: inliner}
	if err := c.compileString(src); err != nil {
		return nil, err
	}
	if len(c.scopes) != 1 {
		return nil, newSyntaxError("template left %d open scope(s)", len(c.scopes)-1)
	}
	return &Template{Source: src, Nodes: c.scopes[0].(*rootFrame).nodes}, nil
}

func (c *compiler) top() scopeFrame { return c.scopes[len(c.scopes)-1] }

func (c *compiler) push(f scopeFrame, n Node) {
	c.top().appendNode(n)
	c.scopes = append(c.scopes, f)
}

// compileString walks src, alternating between literal text (fed through
// compileText) and {{ ... }} directive chunks (fed through compileDirective).
func (c *compiler) compileString(src string) error {
	pos := 0
	for {
		start := strings.Index(src[pos:], "{{")
		if start < 0 {
			c.compileText(src[pos:])
			return nil
		}
		start += pos
		c.compileText(src[pos:start])
		rel := strings.Index(src[start+2:], "}}")
		if rel < 0 {
			return newSyntaxError("unclosed {{ directive")
		}
		end := start + 2 + rel
		if err := c.compileDirective(strings.TrimSpace(src[start+2 : end])); err != nil {
			return err
		}
		pos = end + 2
	}
}

// compileText splits a text chunk into Text/Tag nodes (C2) and appends them
// to the currently open scope. A '[' that does not begin a well-formed tag
// is left as ordinary text, matching the reference parser's regex-based
// splitting (no SyntaxError for incidental brackets in prose).
func (c *compiler) compileText(text string) {
	pos := 0
	textStart := 0
	for pos < len(text) {
		idx := strings.IndexByte(text[pos:], '[')
		if idx < 0 {
			break
		}
		idx += pos
		tag, end, ok := scanBracketedTag(text, idx)
		if !ok {
			pos = idx + 1
			continue
		}
		if idx > textStart {
			c.top().appendNode(&TextNode{Content: text[textStart:idx]})
		}
		c.top().appendNode(&TagNode{Tag: tag})
		textStart = end
		pos = end
	}
	if textStart < len(text) {
		c.top().appendNode(&TextNode{Content: text[textStart:]})
	}
}

func (c *compiler) compileDirective(directive string) error {
	name, rest := splitFirstWS(directive)
	switch name {
	case "inline":
		return c.compileInline(rest)
	case "xsrf":
		return c.compileXsrf(rest)
	case "for":
		return c.compileFor(rest)
	case "endfor":
		return c.compileEndfor()
	case "if":
		return c.compileIf(rest)
	case "ifpresent":
		return c.compilePresence(rest, false)
	case "ifnotpresent":
		return c.compilePresence(rest, true)
	case "elif":
		return c.compileElif(rest)
	case "else":
		return c.compileElse()
	case "endif":
		return c.compileEndif()
	default:
		return newSyntaxError("unknown template function {{ %s }}", name)
	}
}

func (c *compiler) compileInline(name string) error {
	if name == "" {
		return newSyntaxError("inline requires a template name")
	}
	if c.inliner == nil {
		return newSyntaxError("inline %q used without a template cache", name)
	}
	nodes, err := c.inliner(name)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		c.top().appendNode(n)
	}
	return nil
}

func (c *compiler) compileXsrf(value string) error {
	if value == "" {
		return newSyntaxError("xsrf requires a value")
	}
	c.top().appendNode(&TextNode{Content: `<input type="hidden" value="` + value + `" name="xsrf" />`})
	return nil
}

func (c *compiler) compileFor(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) < 3 {
		return newSyntaxError("for requires aliases, 'in', and a source tag: %q", rest)
	}
	sourceRaw := fields[len(fields)-1]
	if fields[len(fields)-2] != "in" {
		return newSyntaxError("for directive is missing 'in' before the source tag: %q", rest)
	}
	aliasesJoined := strings.Join(fields[:len(fields)-2], "")
	var aliases []string
	for _, a := range strings.Split(aliasesJoined, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			return newSyntaxError("for loop has an empty alias: %q", rest)
		}
		aliases = append(aliases, a)
	}
	sourceTag, err := parseBracketedStandalone(sourceRaw)
	if err != nil {
		return newSyntaxError("tag %q in for loop is not valid", sourceRaw)
	}
	loop := &LoopNode{SourceTag: sourceTag, Aliases: aliases}
	c.push(&loopFrame{node: loop}, loop)
	return nil
}

func (c *compiler) compileEndfor() error {
	top := c.top()
	if _, ok := top.(*loopFrame); !ok {
		return newSyntaxError("endfor does not close an open for loop")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

func (c *compiler) compileIf(rest string) error {
	if rest == "" {
		return newSyntaxError("if requires an expression")
	}
	expr, err := ParseExpr(rest)
	if err != nil {
		return err
	}
	cond := &CondNode{Branches: []CondBranch{{Expr: expr}}}
	c.push(&condFrame{node: cond}, cond)
	return nil
}

func (c *compiler) compilePresence(rest string, invert bool) error {
	if rest == "" {
		return newSyntaxError("ifpresent/ifnotpresent requires at least one tag")
	}
	tags, err := parseTagList(rest)
	if err != nil {
		return err
	}
	cond := &CondNode{Presence: true, Invert: invert, Branches: []CondBranch{{Tags: tags}}}
	c.push(&condFrame{node: cond}, cond)
	return nil
}

func (c *compiler) compileElif(rest string) error {
	f, ok := c.top().(*condFrame)
	if !ok {
		return newSyntaxError("elif does not follow an open if/ifpresent")
	}
	if f.node.defaultOpen {
		return newSyntaxError("elif clause may not follow else")
	}
	if rest == "" {
		return newSyntaxError("elif requires an expression")
	}
	if f.node.Presence {
		tags, err := parseTagList(rest)
		if err != nil {
			return err
		}
		f.node.Branches = append(f.node.Branches, CondBranch{Tags: tags})
	} else {
		expr, err := ParseExpr(rest)
		if err != nil {
			return err
		}
		f.node.Branches = append(f.node.Branches, CondBranch{Expr: expr})
	}
	return nil
}

func (c *compiler) compileElse() error {
	f, ok := c.top().(*condFrame)
	if !ok {
		return newSyntaxError("else does not follow an open if/ifpresent")
	}
	if f.node.defaultOpen {
		return newSyntaxError("only one else clause is allowed")
	}
	f.node.defaultOpen = true
	f.node.Default = []Node{}
	return nil
}

func (c *compiler) compileEndif() error {
	top := c.top()
	if _, ok := top.(*condFrame); !ok {
		return newSyntaxError("endif does not close an open if/ifpresent")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

func splitFirstWS(s string) (string, string) {
	i := 0
	for i < len(s) && !isSpaceByte(s[i]) {
		i++
	}
	name := s[:i]
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return name, s[i:]
}

func isSpaceByte(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// parseBracketedStandalone parses a single "[...]"-delimited tag reference
// that appears as a directive argument (the {{ for }} source tag).
func parseBracketedStandalone(raw string) (*Tag, error) {
	if len(raw) < 2 || raw[0] != '[' || raw[len(raw)-1] != ']' {
		return nil, newSyntaxError("expected a bracketed tag, got %q", raw)
	}
	return ParseTag(raw[1 : len(raw)-1])
}

func parseTagList(rest string) ([]*Tag, error) {
	fields := strings.Fields(rest)
	tags := make([]*Tag, 0, len(fields))
	for _, f := range fields {
		t, err := parseBracketedStandalone(f)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}
