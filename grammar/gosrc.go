package grammar

import (
	"strconv"
	"strings"
)

// GoString renders options as a Go composite literal.
func (o Options) GoString() string {
	var fields []string
	add := func(name, value string) {
		fields = append(fields, name+": "+value)
	}
	addBool := func(name string, value bool) {
		if value {
			add(name, "true")
		}
	}

	if o.Lexer != "" {
		add("Lexer", strconv.Quote(o.Lexer))
	}
	addBool("WordBoundary", o.WordBoundary)
	addBool("IgnoreCase", o.IgnoreCase)
	addBool("Multiline", o.Multiline)
	addBool("DotAll", o.DotAll)
	addBool("Verbose", o.Verbose)
	addBool("Locale", o.Locale)
	addBool("Unicode", o.Unicode)
	add("Axiom", strconv.Quote(o.Axiom))
	addBool("Trace", o.Trace)
	add("TraceDepth", strconv.Itoa(o.TraceDepth))
	if o.MatchTimeout != 0 {
		add("MatchTimeout", strconv.FormatInt(int64(o.MatchTimeout), 10))
	}
	return "grammar.Options{" + strings.Join(fields, ", ") + "}"
}

// GoString renders token definition as a Go composite literal.
func (t Token) GoString() string {
	res := "{Name: " + strconv.Quote(t.Name) + ", Re: " + strconv.Quote(t.Re)
	if t.Separator {
		res += ", Separator: true"
	}
	if t.Inline {
		res += ", Inline: true"
	}
	if t.Action != nil {
		res += ", Action: " + t.Action.GoString()
	}
	return res + ", Line: " + strconv.Itoa(t.Line) + ", Col: " + strconv.Itoa(t.Col) + "}"
}

// GoString renders parameter as a Go composite literal.
func (p Param) GoString() string {
	res := "{Name: " + strconv.Quote(p.Name)
	if p.Type != "" {
		res += ", Type: " + strconv.Quote(p.Type)
	}
	if p.Default != nil {
		res += ", Default: " + p.Default.GoString()
	}
	return res + "}"
}

// GoString renders rule as a Go composite literal.
func (r *Rule) GoString() string {
	var sb strings.Builder
	sb.WriteString("{Name: " + strconv.Quote(r.Name))
	if len(r.Params) > 0 {
		sb.WriteString(", Params: []grammar.Param{")
		for i, p := range r.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.GoString())
		}
		sb.WriteString("}")
	}
	if r.Return != nil {
		sb.WriteString(", Return: " + r.Return.GoString())
	}
	sb.WriteString(",\n\t\tBody: " + r.Body.GoString())
	sb.WriteString(",\n\t\tLine: " + strconv.Itoa(r.Line) + ", Col: " + strconv.Itoa(r.Col) + "}")
	return sb.String()
}

// GoString renders the grammar as a Go expression of type *grammar.Grammar.
func (g *Grammar) GoString() string {
	var sb strings.Builder
	sb.WriteString("&grammar.Grammar{\n")
	sb.WriteString("\tName: " + strconv.Quote(g.Name) + ",\n")
	sb.WriteString("\tOptions: " + g.Options.GoString() + ",\n")
	sb.WriteString("\tTokens: []grammar.Token{\n")
	for _, t := range g.Tokens {
		sb.WriteString("\t\t" + t.GoString() + ",\n")
	}
	sb.WriteString("\t},\n")
	sb.WriteString("\tRules: []*grammar.Rule{\n")
	for _, r := range g.Rules {
		sb.WriteString("\t\t" + r.GoString() + ",\n")
	}
	sb.WriteString("\t},\n}")
	return sb.String()
}
