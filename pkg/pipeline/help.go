package pipeline

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// DescribeAll renders one line per registered task: the name followed by its
// one-line description.
func DescribeAll(reg *Registry) string {
	names := reg.Names()

	maxNameLen := 0
	for _, name := range names {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	builder := strings.Builder{}
	lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
	for _, name := range names {
		spec, _ := reg.Resolve(name)
		builder.WriteString(fmt.Sprintf(lineFmt, name+":", spec.ShortDesc()))
	}

	return builder.String()
}

// DescribeOne renders the full documentation of a single task. A registration
// without an entry point is a programmer error and fails the help call.
func DescribeOne(reg *Registry, name string) (string, error) {
	spec, err := reg.Resolve(name)
	if err != nil {
		return "", err
	}

	if spec.Factory == nil {
		return "", eris.Errorf("task %s is registered without an entry point", name)
	}

	doc := strings.TrimSpace(spec.Long)
	if doc == "" {
		doc = spec.ShortDesc()
	}
	if doc == "" {
		doc = "(no documentation)"
	}

	return fmt.Sprintf("%s\n\n%s\n", spec.Name, doc), nil
}
