package nnet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Summary writes a table of the Network's layers, their output shapes and their number of weights
// to w, followed by the total number of weights.
func (net *Network) Summary(w io.Writer) error {
	const rule = "_________________________________________________________________________\n"

	lines := []string{
		fmt.Sprintf("Network: %q\n", net.name),
		rule,
		fmt.Sprintf("%-32s %-28s %s\n", "Layer (type)", "Output Shape", "Param #"),
		strings.Replace(rule, "_", "=", -1),
	}

	for i, n := range net.nodes {
		if i != 0 {
			lines = append(lines, rule)
		}

		lines = append(lines, fmt.Sprintf("%-32s %-28s %d\n",
			n.name+" ("+n.TypeString()+")", shapeString(n.outDims), n.ParamCount()))
	}

	lines = append(lines,
		strings.Replace(rule, "_", "=", -1),
		fmt.Sprintf("Total params: %d\n", net.ParamCount()),
		rule,
	)

	for _, l := range lines {
		if _, err := io.WriteString(w, l); err != nil {
			return err
		}
	}

	return nil
}

func shapeString(dims []int) string {
	s := make([]string, len(dims))
	for i, d := range dims {
		s[i] = strconv.Itoa(d)
	}

	return "(" + strings.Join(s, ", ") + ")"
}
