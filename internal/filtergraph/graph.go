// Package filtergraph builds the visual composition for one rendered segment
// as a typed stage list, then serializes it to ffmpeg filter_complex syntax.
// Constructing the graph as data keeps label wiring and parameter math apart
// from syntax-level escaping.
package filtergraph

import (
	"fmt"
	"regexp"
	"strings"
)

// Arg is one filter argument. Key may be empty for positional arguments.
type Arg struct {
	Key   string
	Value string
}

// Filter is a single named transform with ordered arguments.
type Filter struct {
	Name string
	Args []Arg
}

func (f Filter) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		if a.Key == "" {
			parts[i] = a.Value
		} else {
			parts[i] = a.Key + "=" + a.Value
		}
	}
	return f.Name + "=" + strings.Join(parts, ":")
}

// Chain is one stage of the graph: a run of filters consuming the named input
// labels and producing the named output labels.
type Chain struct {
	Inputs  []string
	Filters []Filter
	Outputs []string
}

func (c Chain) String() string {
	var sb strings.Builder
	for _, in := range c.Inputs {
		sb.WriteString("[" + in + "]")
	}
	filters := make([]string, len(c.Filters))
	for i, f := range c.Filters {
		filters[i] = f.String()
	}
	sb.WriteString(strings.Join(filters, ","))
	for _, out := range c.Outputs {
		sb.WriteString("[" + out + "]")
	}
	return sb.String()
}

// Graph is an ordered chain list realizing a DAG: chains are topologically
// pre-sorted, so no chain may reference a label produced later.
type Graph struct {
	chains []Chain
}

// VideoOut and AudioOut are the terminal labels every complete graph must
// produce. The renderer maps them to the output streams.
const (
	VideoOut = "v"
	AudioOut = "a"
)

// Add appends a chain to the graph.
func (g *Graph) Add(inputs []string, outputs []string, filters ...Filter) {
	g.chains = append(g.chains, Chain{Inputs: inputs, Filters: filters, Outputs: outputs})
}

// Chains returns the ordered stage list.
func (g *Graph) Chains() []Chain {
	return g.chains
}

var sourcePad = regexp.MustCompile(`^\d+:[av]$`)

// Validate checks the graph invariants: every input label is either a source
// pad or was produced by an earlier chain, no label is produced twice, every
// produced label is consumed exactly once except the two terminals, and the
// graph ends in exactly one video output and one audio output.
func (g *Graph) Validate() error {
	if len(g.chains) == 0 {
		return fmt.Errorf("empty graph")
	}

	produced := make(map[string]bool)
	consumed := make(map[string]bool)

	for i, c := range g.chains {
		if len(c.Filters) == 0 {
			return fmt.Errorf("chain %d has no filters", i)
		}
		for _, in := range c.Inputs {
			if sourcePad.MatchString(in) {
				continue
			}
			if !produced[in] {
				return fmt.Errorf("chain %d consumes label %q before it is produced", i, in)
			}
			if consumed[in] {
				return fmt.Errorf("label %q consumed twice", in)
			}
			consumed[in] = true
		}
		for _, out := range c.Outputs {
			if produced[out] {
				return fmt.Errorf("label %q produced twice", out)
			}
			produced[out] = true
		}
	}

	for _, terminal := range []string{VideoOut, AudioOut} {
		if !produced[terminal] {
			return fmt.Errorf("graph does not produce terminal label %q", terminal)
		}
		if consumed[terminal] {
			return fmt.Errorf("terminal label %q consumed by a later stage", terminal)
		}
	}
	for label := range produced {
		if label != VideoOut && label != AudioOut && !consumed[label] {
			return fmt.Errorf("label %q produced but never consumed", label)
		}
	}

	return nil
}

// String serializes the graph to ffmpeg filter_complex syntax.
func (g *Graph) String() string {
	parts := make([]string, len(g.chains))
	for i, c := range g.chains {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}
