package grammar

// nullableRules returns names of rules that can succeed without consuming tokens.
func nullableRules(g *Grammar) map[string]bool {
	res := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			if !res[r.Name] && nullable(r.Body, res) {
				res[r.Name] = true
				changed = true
			}
		}
	}
	return res
}

func nullable(x Expr, rules map[string]bool) bool {
	switch x := x.(type) {
	case *Symbol:
		return x.Kind != TokenSymbol && rules[x.Name]
	case *InlineToken:
		return false
	case *And:
		for _, item := range x.Items {
			if !nullable(item, rules) {
				return false
			}
		}
		return true
	case *Or:
		return nullable(x.Left, rules) || nullable(x.Right, rules)
	case *Rep:
		return x.Min == 0 || nullable(x.Expr, rules)
	case *Bind:
		return nullable(x.Expr, rules)
	default:
		return true
	}
}

// leftCalls calls f for every rule reference that can be reached before any token is consumed.
func leftCalls(x Expr, rules map[string]bool, f func(name string)) {
	switch x := x.(type) {
	case *Symbol:
		if x.Kind != TokenSymbol {
			f(x.Name)
		}
	case *And:
		for _, item := range x.Items {
			leftCalls(item, rules, f)
			if !nullable(item, rules) {
				return
			}
		}
	case *Or:
		leftCalls(x.Left, rules, f)
		leftCalls(x.Right, rules, f)
	case *Rep:
		if x.Max != 0 {
			leftCalls(x.Expr, rules, f)
		}
	case *Bind:
		leftCalls(x.Expr, rules, f)
	}
}

// LeftRecursion returns the first found chain of rules calling each other
// without consuming tokens, e.g. [a b a], or nil if there is none.
// Parsing with a left-recursive rule never terminates.
func LeftRecursion(g *Grammar) []string {
	null := nullableRules(g)
	calls := make(map[string][]string, len(g.Rules))
	for _, r := range g.Rules {
		seen := make(map[string]bool)
		leftCalls(r.Body, null, func(name string) {
			if !seen[name] && g.Rule(name) != nil {
				seen[name] = true
				calls[r.Name] = append(calls[r.Name], name)
			}
		})
	}

	const (
		unvisited = iota
		active
		visited
	)
	state := make(map[string]int, len(g.Rules))
	var path []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = active
		path = append(path, name)
		for _, next := range calls[name] {
			switch state[next] {
			case active:
				for i, n := range path {
					if n == next {
						return append(append([]string{}, path[i:]...), next)
					}
				}
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[name] = visited
		return nil
	}

	for _, r := range g.Rules {
		if state[r.Name] == unvisited {
			if cycle := visit(r.Name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
