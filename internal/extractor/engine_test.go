package extractor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pith/internal/codemap"
	"github.com/mvp-joe/pith/internal/codemap/parsers"
	"github.com/mvp-joe/pith/internal/output"
	"github.com/mvp-joe/pith/internal/tokens"
)

// Test Plan for Engine.Extract:
// - Unsupported languages are rejected with ErrUnsupportedLanguage and no codemap
// - The struct plus impl scenario yields one merged Struct
// - Malformed input sets ParseError without a well-formed declaration
// - Invalid UTF-8 yields an empty codemap with ParseError set
// - Declarations keep source order and locations stay inside the file
// - Extraction is idempotent
// - Private-inclusive output is a superset of the public-only output
// - TokenCount is the counter applied to the text rendering
// - Adapter panics become a ParseError for that file only
// - The cache serves repeated requests and misses on changed content
// - Empty results serialize as [] regardless of the visibility option

const rustSample = `use std::fmt::Display;

/// A point.
pub struct Point {
    pub x: i32,
    y: i32,
}

impl Point {
    pub fn norm(&self) -> i32 {
        self.x + self.y
    }

    fn reset(&mut self) {
        self.x = 0;
    }
}

pub enum Shape {
    Circle(f64),
    Square { side: f64 },
}

fn helper() -> u8 {
    1
}

pub const LIMIT: usize = 10;
`

// lenCounter counts bytes so tests can predict token counts exactly.
type lenCounter struct{}

func (lenCounter) Count(text string) int     { return len(text) }
func (lenCounter) Encoding() tokens.Encoding { return "" }

type panicAdapter struct{}

func (panicAdapter) Imports(*parsers.Tree) []codemap.Import { return nil }
func (panicAdapter) Declarations(*parsers.Tree, codemap.ExtractOptions) []codemap.Declaration {
	panic("unexpected node")
}

func TestExtract_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	cm, err := New().Extract("x.rb", []byte("def x; end"), codemap.Language("ruby"), codemap.DefaultExtractOptions())
	require.ErrorIs(t, err, codemap.ErrUnsupportedLanguage)
	assert.Nil(t, cm)
}

func TestExtract_PointScenario(t *testing.T) {
	t.Parallel()

	src := "pub struct Point { pub x: i32, y: i32 }\nimpl Point { pub fn norm(&self) -> i32 { 0 } }\n"
	cm, err := New().Extract("point.rs", []byte(src), codemap.Rust, codemap.DefaultExtractOptions())
	require.NoError(t, err)
	require.Empty(t, cm.ParseError)
	require.Len(t, cm.Declarations, 1)

	point, ok := cm.Declarations[0].(codemap.Struct)
	require.True(t, ok)
	assert.Equal(t, "Point", point.Name)
	assert.Equal(t, []codemap.Field{
		{Name: "x", Type: "i32", Visibility: codemap.Public},
		{Name: "y", Type: "i32", Visibility: codemap.Private},
	}, point.Fields)
	require.Len(t, point.Methods, 1)
	assert.Equal(t, "norm", point.Methods[0].Name)
	assert.Equal(t, codemap.Public, point.Methods[0].Visibility)
	assert.False(t, point.Methods[0].IsAsync)
}

func TestExtract_Malformed(t *testing.T) {
	t.Parallel()

	cm, err := New().Extract("broken.rs", []byte("fn broken( { }"), codemap.Rust, codemap.DefaultExtractOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, cm.ParseError)
	for _, d := range cm.Declarations {
		assert.NotEqual(t, "broken", d.Head().Name)
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	t.Parallel()

	cm, err := New().Extract("bad.go", []byte("package x\n\xff\xfe"), codemap.Go, codemap.DefaultExtractOptions())
	require.NoError(t, err)
	assert.Contains(t, cm.ParseError, "line 2")
	assert.Empty(t, cm.Imports)
	assert.Empty(t, cm.Declarations)
}

func TestExtract_OrderAndLocations(t *testing.T) {
	t.Parallel()

	cm, err := New().Extract("geom.rs", []byte(rustSample), codemap.Rust, codemap.DefaultExtractOptions())
	require.NoError(t, err)
	require.Empty(t, cm.ParseError)

	var names []string
	for _, d := range cm.Declarations {
		names = append(names, d.Head().Name)
	}
	assert.Equal(t, []string{"Point", "Shape", "helper", "LIMIT"}, names)

	lineCount := strings.Count(rustSample, "\n") + 1
	prev := 0
	for _, d := range cm.Declarations {
		loc := d.Head().Location
		assert.Greater(t, loc.StartLine, prev, d.Head().Name)
		assert.GreaterOrEqual(t, loc.EndLine, loc.StartLine, d.Head().Name)
		assert.LessOrEqual(t, loc.EndLine, lineCount, d.Head().Name)
		prev = loc.StartLine
	}
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	engine := New()
	opts := codemap.ExtractOptions{IncludeDocs: true, IncludePrivate: true}
	first, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, opts)
	require.NoError(t, err)
	second, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtract_PrivateIsSuperset(t *testing.T) {
	t.Parallel()

	engine := New()
	full, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, codemap.ExtractOptions{IncludePrivate: true})
	require.NoError(t, err)
	public, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, codemap.ExtractOptions{})
	require.NoError(t, err)

	filtered := full.PublicOnly()
	assert.Equal(t, filtered.Declarations, public.Declarations)
	assert.Less(t, len(public.Declarations), len(full.Declarations))
	for _, d := range public.Declarations {
		assert.Equal(t, codemap.Public, d.Head().Visibility)
	}
}

func TestExtract_TypeScriptPrivateArrow(t *testing.T) {
	t.Parallel()

	src := []byte("const f = (x: number): number => x;\n")
	engine := New()

	full, err := engine.Extract("f.ts", src, codemap.TypeScript, codemap.ExtractOptions{IncludePrivate: true})
	require.NoError(t, err)
	require.Len(t, full.Declarations, 1)
	assert.Equal(t, "f", full.Declarations[0].Head().Name)
	assert.Equal(t, codemap.Private, full.Declarations[0].Head().Visibility)

	public, err := engine.Extract("f.ts", src, codemap.TypeScript, codemap.ExtractOptions{})
	require.NoError(t, err)
	assert.Empty(t, public.Declarations)
}

func TestExtract_TokenCount(t *testing.T) {
	t.Parallel()

	cm, err := New(WithCounter(lenCounter{})).Extract("geom.rs", []byte(rustSample), codemap.Rust, codemap.DefaultExtractOptions())
	require.NoError(t, err)

	assert.Equal(t, len(output.Text(cm, false)), cm.TokenCount)
	assert.Positive(t, cm.TokenCount)
}

func TestExtract_RecoversAdapterPanic(t *testing.T) {
	t.Parallel()

	cm := extract(panicAdapter{}, "x.go", []byte("package x\n"), codemap.Go, codemap.DefaultExtractOptions())
	assert.Equal(t, "x.go", cm.Path)
	assert.Equal(t, codemap.Go, cm.Language)
	assert.Contains(t, cm.ParseError, "unexpected node")
	assert.Empty(t, cm.Declarations)
}

func TestExtract_Cache(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(16)
	require.NoError(t, err)
	defer cache.Close()

	engine := New(WithCache(cache))
	opts := codemap.DefaultExtractOptions()

	first, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, opts)
	require.NoError(t, err)
	second, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, opts)
	require.NoError(t, err)
	assert.Same(t, first, second)

	changed, err := engine.Extract("geom.rs", []byte(rustSample+"fn extra() {}\n"), codemap.Rust, opts)
	require.NoError(t, err)
	assert.NotSame(t, first, changed)
	assert.Len(t, changed.Declarations, len(first.Declarations)+1)

	withDocs, err := engine.Extract("geom.rs", []byte(rustSample), codemap.Rust, codemap.ExtractOptions{IncludeDocs: true, IncludePrivate: true})
	require.NoError(t, err)
	assert.NotSame(t, first, withDocs)
}

func TestExtract_EmptyResultShape(t *testing.T) {
	t.Parallel()

	engine := New()
	for _, includePrivate := range []bool{true, false} {
		opts := codemap.ExtractOptions{IncludePrivate: includePrivate}
		for _, src := range []string{"// nothing here\n", "fn a() {}\n\xff\n"} {
			cm, err := engine.Extract("empty.rs", []byte(src), codemap.Rust, opts)
			require.NoError(t, err)
			require.NotNil(t, cm.Imports)
			require.NotNil(t, cm.Declarations)

			data, err := json.Marshal(cm)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"imports":[]`)
			if len(cm.Declarations) == 0 {
				assert.Contains(t, string(data), `"declarations":[]`)
			}
		}
	}
}

func TestNewCache_ZeroDisables(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(0)
	require.NoError(t, err)
	assert.Nil(t, cache)
	assert.Zero(t, cache.Len())
	cache.Close()
}
