package codemap

import (
	"encoding/json"
	"fmt"
)

// Each variant serializes with a "kind" tag so renderers can switch on it
// without depending on the Go types.

func (d Function) MarshalJSON() ([]byte, error) {
	type plain Function
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindFunction, plain(d)})
}

func (d Struct) MarshalJSON() ([]byte, error) {
	type plain Struct
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindStruct, plain(d)})
}

func (d Enum) MarshalJSON() ([]byte, error) {
	type plain Enum
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindEnum, plain(d)})
}

func (d Trait) MarshalJSON() ([]byte, error) {
	type plain Trait
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindTrait, plain(d)})
}

func (d TypeAlias) MarshalJSON() ([]byte, error) {
	type plain TypeAlias
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindTypeAlias, plain(d)})
}

func (d Const) MarshalJSON() ([]byte, error) {
	type plain Const
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindConst, plain(d)})
}

func (d Interface) MarshalJSON() ([]byte, error) {
	type plain Interface
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindInterface, plain(d)})
}

func (d Class) MarshalJSON() ([]byte, error) {
	type plain Class
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		plain
	}{KindClass, plain(d)})
}

// UnmarshalDeclaration decodes one kind-tagged declaration object.
func UnmarshalDeclaration(data []byte) (Declaration, error) {
	var tag struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	var (
		decl Declaration
		err  error
	)
	switch tag.Kind {
	case KindFunction:
		decl, err = decode[Function](data)
	case KindStruct:
		decl, err = decode[Struct](data)
	case KindEnum:
		decl, err = decode[Enum](data)
	case KindTrait:
		decl, err = decode[Trait](data)
	case KindTypeAlias:
		decl, err = decode[TypeAlias](data)
	case KindConst:
		decl, err = decode[Const](data)
	case KindInterface:
		decl, err = decode[Interface](data)
	case KindClass:
		decl, err = decode[Class](data)
	default:
		return nil, fmt.Errorf("unknown declaration kind %q", tag.Kind)
	}
	return decl, err
}

func decode[T Declaration](data []byte) (T, error) {
	var v T
	err := json.Unmarshal(data, &v)
	return v, err
}

// UnmarshalJSON restores a Codemap including its tagged declarations.
func (c *Codemap) UnmarshalJSON(data []byte) error {
	type plain Codemap
	var raw struct {
		plain
		Declarations []json.RawMessage `json:"declarations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Codemap(raw.plain)
	c.Declarations = make([]Declaration, 0, len(raw.Declarations))
	for i, msg := range raw.Declarations {
		d, err := UnmarshalDeclaration(msg)
		if err != nil {
			return fmt.Errorf("declaration %d: %w", i, err)
		}
		c.Declarations = append(c.Declarations, d)
	}
	return nil
}
