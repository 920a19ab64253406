package output

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Text renders one codemap in the markdown-style text format. The engine
// counts tokens over this form with publicOnly false.
func Text(cm *codemap.Codemap, publicOnly bool) string {
	if publicOnly {
		cm = cm.PublicOnly()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", cm.Path)

	if cm.ParseError != "" {
		fmt.Fprintf(&b, "**Parse error:** %s\n\n", cm.ParseError)
	}

	if len(cm.Imports) > 0 {
		b.WriteString("### Imports\n")
		for _, imp := range cm.Imports {
			writeImport(&b, imp)
		}
		b.WriteString("\n")
	}

	if len(cm.Declarations) > 0 {
		b.WriteString("### Declarations\n\n")
		for _, d := range cm.Declarations {
			writeDeclaration(&b, d)
		}
	}

	return b.String()
}

func writeImport(b *strings.Builder, imp codemap.Import) {
	if len(imp.Items) == 0 {
		fmt.Fprintf(b, "- %s\n", imp.Source)
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", imp.Source, strings.Join(imp.Items, ", "))
}

func writeDeclaration(b *strings.Builder, d codemap.Declaration) {
	loc := d.Head().Location
	switch d := d.(type) {
	case codemap.Function:
		head, where, _ := strings.Cut(d.Signature, "\n")
		fmt.Fprintf(b, "#### %s (%s)\n", head, loc)
		if where != "" {
			fmt.Fprintf(b, "    %s\n", where)
		}
		writeDoc(b, d.Doc)

	case codemap.Struct:
		fmt.Fprintf(b, "#### struct %s (%s)\n", d.Name, loc)
		writeDoc(b, d.Doc)
		writeFields(b, d.Fields)
		writeMethods(b, "Methods", d.Methods)

	case codemap.Enum:
		fmt.Fprintf(b, "#### enum %s (%s)\n", d.Name, loc)
		writeDoc(b, d.Doc)
		writeList(b, "Variants", d.Variants)
		writeMethods(b, "Methods", d.Methods)

	case codemap.Trait:
		fmt.Fprintf(b, "#### trait %s (%s)\n", d.Name, loc)
		writeDoc(b, d.Doc)
		writeList(b, "Methods", d.Methods)

	case codemap.Interface:
		fmt.Fprintf(b, "#### interface %s (%s)\n", d.Name, loc)
		writeDoc(b, d.Doc)
		writeList(b, "Members", d.Members)

	case codemap.Class:
		fmt.Fprintf(b, "#### class %s (%s)\n", d.Name, loc)
		writeDoc(b, d.Doc)
		writeFields(b, d.Fields)
		writeMethods(b, "Members", d.Members)

	case codemap.TypeAlias:
		if d.Target == "" {
			fmt.Fprintf(b, "#### type %s (%s)\n", d.Name, loc)
		} else {
			fmt.Fprintf(b, "#### type %s = %s (%s)\n", d.Name, d.Target, loc)
		}

	case codemap.Const:
		if d.Type == "" {
			fmt.Fprintf(b, "#### const %s (%s)\n", d.Name, loc)
		} else {
			fmt.Fprintf(b, "#### const %s: %s (%s)\n", d.Name, d.Type, loc)
		}
	}
	b.WriteString("\n")
}

func writeDoc(b *strings.Builder, doc *string) {
	if doc != nil && *doc != "" {
		b.WriteString(*doc)
		b.WriteString("\n")
	}
}

func writeFields(b *strings.Builder, fields []codemap.Field) {
	if len(fields) == 0 {
		return
	}
	b.WriteString("Fields:\n")
	for _, f := range fields {
		b.WriteString("- ")
		if f.Visibility != codemap.Private {
			b.WriteString(f.Visibility.String())
			b.WriteString(" ")
		}
		b.WriteString(f.Name)
		if f.Type != "" {
			b.WriteString(": ")
			b.WriteString(f.Type)
		}
		b.WriteString("\n")
	}
}

func writeMethods(b *strings.Builder, label string, fns []codemap.Function) {
	if len(fns) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, fn := range fns {
		sig := strings.ReplaceAll(fn.Signature, "\n", " ")
		fmt.Fprintf(b, "- %s (%s)\n", sig, fn.Location)
	}
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", strings.ReplaceAll(item, "\n", " "))
	}
}
