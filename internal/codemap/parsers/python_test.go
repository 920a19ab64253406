package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pith/internal/codemap"
)

// Test Plan for PythonAdapter:
// - A single leading underscore is Protected, a double one Private, dunders included
// - import and from-import forms, including aliases and wildcards
// - Async functions and return annotations end up in the signature
// - Classes collect methods (decorated too) and annotated class attributes
// - Module-level ALL_CAPS assignments are constants
// - Docstrings come from the first body statement, not preceding comments
// - Nested functions are not extracted

const pySample = `import os, sys as system
from typing import List, Optional as Opt
from .models import *

MAX_SIZE: int = 100
default_name = "x"

def _helper(x):
    pass

# not a docstring
async def fetch(url: str, timeout: float = 1.0) -> bytes:
    """Fetch a URL.

    Returns raw bytes.
    """
    return b""

@dataclass
class User(Base):
    """A user."""
    name: str
    _age: int = 0

    def __init__(self, name):
        self.name = name

    def __secret(self):
        pass

    @property
    def display(self) -> str:
        return self.name

    def _internal(self):
        def nested():
            pass
`

func TestPythonAdapter_HelperScenario(t *testing.T) {
	t.Parallel()

	_, decls := extract(t, codemap.Python, "def _helper(x): pass\n", allOpts())

	require.Len(t, decls, 1)
	fn, ok := decls[0].(codemap.Function)
	require.True(t, ok)
	assert.Equal(t, "_helper", fn.Name)
	assert.Equal(t, codemap.Protected, fn.Visibility)
	assert.Equal(t, "def _helper(x)", fn.Signature)
}

func TestPythonAdapter_Imports(t *testing.T) {
	t.Parallel()

	imports, _ := extract(t, codemap.Python, pySample, allOpts())

	assert.Equal(t, []codemap.Import{
		{Source: "os"},
		{Source: "sys"},
		{Source: "typing", Items: []string{"List", "Optional"}},
		{Source: ".models", Items: []string{"*"}},
	}, imports)
}

func TestPythonAdapter_Declarations(t *testing.T) {
	t.Parallel()

	_, decls := extract(t, codemap.Python, pySample, allOpts())

	assert.Equal(t, []string{"MAX_SIZE", "_helper", "fetch", "User"}, names(decls))

	max := decls[0].(codemap.Const)
	assert.Equal(t, "int", max.Type)
	assert.Equal(t, codemap.Public, max.Visibility)

	fetch := decls[2].(codemap.Function)
	assert.True(t, fetch.IsAsync)
	assert.Equal(t, "async def fetch(url: str, timeout: float = 1.0) -> bytes", fetch.Signature)
	assert.Equal(t, 12, fetch.Location.StartLine)
	assert.Nil(t, fetch.Doc)

	user := decls[3].(codemap.Class)
	assert.Equal(t, codemap.Public, user.Visibility)
	assert.Equal(t, []codemap.Field{
		{Name: "name", Type: "str", Visibility: codemap.Public},
		{Name: "_age", Type: "int", Visibility: codemap.Protected},
	}, user.Fields)
	assert.Equal(t, []string{"__init__", "__secret", "display", "_internal"}, functionNames(user.Members))
	assert.Equal(t, codemap.Private, user.Members[0].Visibility)
	assert.Equal(t, codemap.Private, user.Members[1].Visibility)
	assert.Equal(t, codemap.Public, user.Members[2].Visibility)
	assert.Equal(t, codemap.Protected, user.Members[3].Visibility)
	assert.Equal(t, "def display(self) -> str", user.Members[2].Signature)
}

func TestPythonAdapter_DunderNamesArePrivate(t *testing.T) {
	t.Parallel()

	src := "class A:\n    def __init__(self):\n        pass\n\n    def run(self):\n        pass\n\ndef __dunder__():\n    pass\n"
	_, decls := extract(t, codemap.Python, src, allOpts())

	require.Len(t, decls, 2)
	assert.Equal(t, codemap.Private, decls[1].Head().Visibility)
	a := decls[0].(codemap.Class)
	assert.Equal(t, codemap.Private, a.Members[0].Visibility)

	public := (&codemap.Codemap{Declarations: decls}).PublicOnly()
	require.Len(t, public.Declarations, 1)
	assert.Equal(t, []string{"run"}, functionNames(public.Declarations[0].(codemap.Class).Members))
}

func TestPythonAdapter_Docstrings(t *testing.T) {
	t.Parallel()

	_, decls := extract(t, codemap.Python, pySample, docOpts())

	fetch := decls[2].(codemap.Function)
	require.NotNil(t, fetch.Doc)
	assert.Equal(t, "Fetch a URL.\n\n    Returns raw bytes.", *fetch.Doc)

	user := decls[3].(codemap.Class)
	require.NotNil(t, user.Doc)
	assert.Equal(t, "A user.", *user.Doc)

	helper := decls[1].(codemap.Function)
	assert.Nil(t, helper.Doc)
}

func TestStripDocstring(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "raw", stripDocstring(`r"""raw"""`))
	assert.Equal(t, "single", stripDocstring(`'single'`))
	assert.Equal(t, "", stripDocstring(`""""""`))
}
