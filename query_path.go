package params

import (
	"encoding/json"
	"strconv"
)

// pathExpr is the ordered evaluation form of the JMESPath subset built from
// identifiers, quoted identifiers, "*", "[*]", "[n]", multi-select lists and
// "||". Expressions reach parsePath only after go-jmespath compiled them, so
// the parser rejects (returns false) instead of reporting errors.
type pathExpr struct {
	alternatives []pathChain
}

type pathChain []pathStep

type stepKind int

const (
	stepField stepKind = iota
	stepIndex
	stepValues
	stepElements
	stepMultiSelect
)

type pathStep struct {
	kind  stepKind
	field string
	index int
	items []*pathExpr
}

func parsePath(src string) (*pathExpr, bool) {
	p := &pathParser{src: src}
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, false
	}
	return expr, true
}

type pathParser struct {
	src string
	pos int
}

func (p *pathParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *pathParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *pathParser) parseExpr() (*pathExpr, bool) {
	expr := &pathExpr{}
	for {
		chain, ok := p.parseChain()
		if !ok {
			return nil, false
		}
		expr.alternatives = append(expr.alternatives, chain)
		p.skipSpace()
		if p.pos+1 >= len(p.src) || p.src[p.pos:p.pos+2] != "||" {
			return expr, true
		}
		p.pos += 2
	}
}

func (p *pathParser) parseChain() (pathChain, bool) {
	p.skipSpace()
	var first pathStep
	var ok bool
	if p.peek() == '[' {
		first, ok = p.parseBracket(true)
	} else {
		first, ok = p.parseName()
	}
	if !ok {
		return nil, false
	}
	chain := pathChain{first}
	for {
		p.skipSpace()
		switch p.peek() {
		case '.':
			p.pos++
			p.skipSpace()
			var next pathStep
			if p.peek() == '[' {
				next, ok = p.parseBracket(true)
			} else {
				next, ok = p.parseName()
			}
			if !ok {
				return nil, false
			}
			chain = append(chain, next)
		case '[':
			next, ok := p.parseBracket(false)
			if !ok {
				return nil, false
			}
			chain = append(chain, next)
		default:
			return chain, true
		}
	}
}

// parseName reads an identifier, a quoted identifier or "*".
func (p *pathParser) parseName() (pathStep, bool) {
	c := p.peek()
	switch {
	case c == '*':
		p.pos++
		return pathStep{kind: stepValues}, true
	case c == '"':
		return p.parseQuoted()
	case isIdentStart(c):
		start := p.pos
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		return pathStep{kind: stepField, field: p.src[start:p.pos]}, true
	default:
		return pathStep{}, false
	}
}

func (p *pathParser) parseQuoted() (pathStep, bool) {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '"':
			p.pos++
			var name string
			if err := json.Unmarshal([]byte(p.src[start:p.pos]), &name); err != nil {
				return pathStep{}, false
			}
			return pathStep{kind: stepField, field: name}, true
		}
		p.pos++
	}
	return pathStep{}, false
}

// parseBracket reads "[*]", "[n]" or, when allowMulti is set, a multi-select
// list. Filters, slices and flattening are left to go-jmespath.
func (p *pathParser) parseBracket(allowMulti bool) (pathStep, bool) {
	p.pos++
	p.skipSpace()
	switch c := p.peek(); {
	case c == '*':
		save := p.pos
		p.pos++
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return pathStep{kind: stepElements}, true
		}
		p.pos = save
	case c == '-' || (c >= '0' && c <= '9'):
		start := p.pos
		p.pos++
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			return pathStep{}, false
		}
		p.skipSpace()
		if p.peek() != ']' {
			return pathStep{}, false
		}
		p.pos++
		return pathStep{kind: stepIndex, index: n}, true
	}
	if !allowMulti {
		return pathStep{}, false
	}
	step := pathStep{kind: stepMultiSelect}
	for {
		item, ok := p.parseExpr()
		if !ok {
			return pathStep{}, false
		}
		step.items = append(step.items, item)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return step, true
		default:
			return pathStep{}, false
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (e *pathExpr) eval(current any) any {
	var result any
	for _, chain := range e.alternatives {
		result = chain.eval(current)
		if truthy(result) {
			return result
		}
	}
	return result
}

func (chain pathChain) eval(current any) any {
	for i, step := range chain {
		switch step.kind {
		case stepField:
			current = fieldOf(current, step.field)
		case stepIndex:
			current = elementAt(current, step.index)
		case stepMultiSelect:
			if current == nil {
				return nil
			}
			out := make([]any, len(step.items))
			for j, item := range step.items {
				out[j] = item.eval(current)
			}
			current = out
		case stepValues:
			values, ok := objectValues(current)
			if !ok {
				return nil
			}
			return chain[i+1:].project(values)
		case stepElements:
			values, ok := listValues(current)
			if !ok {
				return nil
			}
			return chain[i+1:].project(values)
		}
	}
	return current
}

// project applies the rest of a chain to each element, dropping nulls.
func (chain pathChain) project(values []any) any {
	out := []any{}
	for _, value := range values {
		if result := chain.eval(value); result != nil {
			out = append(out, result)
		}
	}
	return out
}

func fieldOf(current any, name string) any {
	c, ok := current.(*Container)
	if !ok || c.isSequence() {
		return nil
	}
	return c.Get(name)
}

func elementAt(current any, index int) any {
	values, ok := listValues(current)
	if !ok {
		return nil
	}
	if index < 0 {
		index += len(values)
	}
	if index < 0 || index >= len(values) {
		return nil
	}
	return values[index]
}

func objectValues(current any) ([]any, bool) {
	c, ok := current.(*Container)
	if !ok || c.isSequence() {
		return nil, false
	}
	values := make([]any, len(c.keys))
	for i, key := range c.keys {
		values[i] = c.values[key]
	}
	return values, true
}

func listValues(current any) ([]any, bool) {
	switch typed := current.(type) {
	case []any:
		return typed, true
	case *Container:
		if !typed.isSequence() {
			return nil, false
		}
		values := make([]any, len(typed.keys))
		for i, key := range typed.keys {
			values[i] = typed.values[key]
		}
		return values, true
	default:
		return nil, false
	}
}

// truthy follows JMESPath: null, false, "" and empty lists or objects are
// false.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case []any:
		return len(typed) > 0
	case *Container:
		return typed.Len() > 0
	default:
		return true
	}
}
