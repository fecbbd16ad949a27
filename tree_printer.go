package linguist

import (
	"fmt"
	"strconv"
	"strings"
)

// TreePrinter renders a parse tree with box drawing characters, one
// node per line, annotated with the token range each node spans.
type TreePrinter struct {
	padStr *[]string
	output *strings.Builder
	format FormatFn
}

func NewTreePrinter(format FormatFn) *TreePrinter {
	if format == nil {
		format = func(input string, token FormatToken) string { return input }
	}
	return &TreePrinter{
		padStr: &[]string{},
		output: &strings.Builder{},
		format: format,
	}
}

func (v *TreePrinter) Output() string { return v.output.String() }

func (v *TreePrinter) VisitToken(n *TokenNode) error {
	escaped := strconv.Quote(string(n.Token))
	v.write(v.format(escaped, FormatToken_Literal))
	v.write(v.format(fmt.Sprintf(" (%s)", n.Range()), FormatToken_Range))
	return nil
}

func (v *TreePrinter) VisitRule(n *RuleNode) error {
	v.write(v.format(n.Prod.Lhs, FormatToken_Literal))
	v.writel(v.format(fmt.Sprintf(" (%s)", n.Range()), FormatToken_Range))
	if len(n.Children) == 0 {
		v.pwrite("└── ")
		v.write(v.format("ε", FormatToken_Literal))
		return nil
	}
	for i, child := range n.Children {
		switch {
		case i == len(n.Children)-1:
			v.pwrite("└── ")
			v.indent("    ")
			child.Accept(v)
			v.unindent()
		default:
			v.pwrite("├── ")
			v.indent("│   ")
			child.Accept(v)
			v.unindent()
			v.write("\n")
		}
	}
	return nil
}

func (v *TreePrinter) indent(s string) {
	*v.padStr = append(*v.padStr, s)
}

func (v *TreePrinter) unindent() {
	index := len(*v.padStr) - 1
	*v.padStr = (*v.padStr)[:index]
}

func (v *TreePrinter) padding() {
	for _, item := range *v.padStr {
		v.write(item)
	}
}

func (v *TreePrinter) writel(s string) {
	v.write(s)
	v.output.WriteRune('\n')
}

func (v *TreePrinter) write(s string) {
	v.output.WriteString(s)
}

func (v *TreePrinter) pwrite(s string) {
	v.padding()
	v.write(s)
}
