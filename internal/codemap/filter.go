package codemap

// PublicOnly returns a copy of c that keeps only Public declarations and,
// inside the survivors, only Public fields and methods. c is not modified.
func (c *Codemap) PublicOnly() *Codemap {
	out := *c
	out.Imports = append(make([]Import, 0, len(c.Imports)), c.Imports...)
	out.Declarations = make([]Declaration, 0, len(c.Declarations))
	for _, d := range c.Declarations {
		if d.Head().Visibility != Public {
			continue
		}
		out.Declarations = append(out.Declarations, publicMembers(d))
	}
	return &out
}

func publicMembers(d Declaration) Declaration {
	switch d := d.(type) {
	case Struct:
		d.Fields = publicFields(d.Fields)
		d.Methods = publicFunctions(d.Methods)
		return d
	case Enum:
		d.Methods = publicFunctions(d.Methods)
		return d
	case Class:
		d.Fields = publicFields(d.Fields)
		d.Members = publicFunctions(d.Members)
		return d
	}
	return d
}

func publicFields(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if f.Visibility == Public {
			out = append(out, f)
		}
	}
	return out
}

func publicFunctions(fns []Function) []Function {
	var out []Function
	for _, f := range fns {
		if f.Visibility == Public {
			out = append(out, f)
		}
	}
	return out
}
