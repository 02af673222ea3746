package typemeta_test

import (
	"path/filepath"
	"testing"

	"github.com/pclint/pclint/internal/lexer"
	"github.com/pclint/pclint/internal/parser"
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

func parseUnit(t *testing.T, src string) *typemeta.TypeMetadata {
	t.Helper()
	ctx := &pipeline.Context{FilePath: "test.ppl", SourceCode: src}
	stream, _ := lexer.Tokenize(src)
	prog := parser.New(stream, ctx).ParseProgram()
	if len(ctx.Errors) > 0 {
		t.Fatalf("fixture does not parse: %v", ctx.Errors)
	}
	return typemeta.Extract(prog, "PKG:TEST:Unit")
}

const classFixture = "class Unit extends PKG:BASE:Entity\n" +
	"method Unit(&id As string);\n" +
	"method Rename(&name As string out) Returns boolean;\n" +
	"property number Total readonly;\n" +
	"Constant &LIMIT = 50;\n" +
	"private\n" +
	"instance array of string &tags;\n" +
	"end-class;\n" +
	"\n" +
	"method Unit\nend-method;\n" +
	"\n" +
	"method Rename\nReturn True;\nend-method;\n"

func TestExtractClass(t *testing.T) {
	meta := parseUnit(t, classFixture)
	if meta.Kind != typemeta.UnitAppClass {
		t.Fatalf("kind = %s, want application class", meta.Kind)
	}
	if meta.QualifiedName != "PKG:TEST:Unit" {
		t.Errorf("qualified name = %q", meta.QualifiedName)
	}
	if meta.BaseClass != "PKG:BASE:Entity" || meta.BaseIsBuiltin {
		t.Errorf("base = %q (builtin %v)", meta.BaseClass, meta.BaseIsBuiltin)
	}
}

func TestConstructorSeparatedFromMethods(t *testing.T) {
	meta := parseUnit(t, classFixture)
	if meta.Constructor == nil {
		t.Fatal("constructor not extracted")
	}
	if _, ok := meta.Method("Unit"); ok {
		t.Error("constructor must not appear in the method table")
	}
	m, ok := meta.Method("RENAME")
	if !ok {
		t.Fatal("method lookup should be case-insensitive")
	}
	if len(m.Params) != 1 || !m.Params[0].MustBeVariable {
		t.Errorf("out parameter not carried: %+v", m.Params)
	}
	if m.Return.Kind != types.ReturnFixed {
		t.Errorf("return kind = %v, want fixed", m.Return.Kind)
	}
}

func TestExtractMembers(t *testing.T) {
	meta := parseUnit(t, classFixture)
	p, ok := meta.Property("total")
	if !ok {
		t.Fatal("property Total missing")
	}
	if p.String() != "number" {
		t.Errorf("Total = %s, want number", p)
	}
	tags, ok := meta.Property("&tags")
	if !ok {
		t.Fatal("instance variable &tags not reachable through Property")
	}
	if tags.String() != "array of string" {
		t.Errorf("&tags = %s", tags)
	}
	limit, ok := meta.Property("&limit")
	if !ok {
		t.Fatal("class constant missing")
	}
	if _, isConst := limit.(types.Constant); !isConst {
		t.Errorf("&LIMIT = %T, want a Constant", limit)
	}
}

func TestExtractBuiltinBase(t *testing.T) {
	src := "class MyRowset extends Rowset\nend-class;"
	meta := parseUnit(t, src)
	if !meta.BaseIsBuiltin || meta.BaseClass != "Rowset" {
		t.Errorf("base = %q builtin=%v, want builtin Rowset", meta.BaseClass, meta.BaseIsBuiltin)
	}
}

func TestExtractInterface(t *testing.T) {
	src := "interface Walker\nmethod Step() Returns boolean;\nend-interface;"
	meta := parseUnit(t, src)
	if meta.Kind != typemeta.UnitInterface {
		t.Fatalf("kind = %s, want interface", meta.Kind)
	}
	if _, ok := meta.Method("step"); !ok {
		t.Error("interface method missing")
	}
}

func TestExtractFunctionLibrary(t *testing.T) {
	src := "Function Tally(&n As number) Returns number\nReturn &n;\nEnd-Function;"
	meta := parseUnit(t, src)
	if meta.Kind != typemeta.UnitFunctionLibrary {
		t.Fatalf("kind = %s, want function library", meta.Kind)
	}
	f, ok := meta.Function("tally")
	if !ok {
		t.Fatal("library function missing")
	}
	if len(f.Params) != 1 || f.Params[0].Name != "&n" {
		t.Errorf("params = %+v", f.Params)
	}
}

func TestParseTypeString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"string", "string"},
		{"NUMBER", "number"},
		{"any", "any"},
		{"", "any"},
		{"array of string", "array of string"},
		{"array of array of number", "array of array of number"},
		{"array", "array"},
		{"Rowset", "Rowset"},
		{"PKG:SUB:Class", "PKG:SUB:Class"},
	}
	for _, tc := range cases {
		if got := typemeta.ParseTypeString(tc.in); got.String() != tc.want {
			t.Errorf("ParseTypeString(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestBuiltinLookups(t *testing.T) {
	if _, ok := typemeta.BuiltinFunction("CREATEROWSET"); !ok {
		t.Error("builtin lookup should be case-insensitive")
	}
	if _, ok := typemeta.BuiltinFunction("NoSuchFn"); ok {
		t.Error("unknown builtin resolved")
	}

	v, ok := typemeta.SystemVariableType("%UserId")
	if !ok || v.String() != "string" {
		t.Errorf("%%UserId = %v (%v)", v, ok)
	}
	s, ok := typemeta.SystemVariableType("%Session")
	if !ok || s.String() != "Session" {
		t.Errorf("%%Session = %v (%v)", s, ok)
	}

	meta, ok := typemeta.BuiltinObjectMeta("rowset")
	if !ok {
		t.Fatal("Rowset metadata missing")
	}
	if meta.Default == nil {
		t.Error("Rowset should carry a default method for &rs(i) calls")
	}

	if m, ok := typemeta.ArrayMethod("Push"); !ok || m == nil {
		t.Error("array Push missing")
	}
	if p, ok := typemeta.ArrayProperty("len"); !ok || p.String() != "integer" {
		t.Errorf("array Len = %v (%v)", p, ok)
	}
}

func TestReferenceCategory(t *testing.T) {
	if cat, ok := typemeta.ReferenceCategory("record"); !ok || cat != "Record" {
		t.Errorf("record category = %q (%v)", cat, ok)
	}
	if _, ok := typemeta.ReferenceCategory("notacategory"); ok {
		t.Error("unknown category resolved")
	}
}

func TestCacheFirstWriterWins(t *testing.T) {
	c := typemeta.NewCache()
	first := typemeta.NewTypeMetadata("PKG:A", typemeta.UnitAppClass)
	second := typemeta.NewTypeMetadata("PKG:A", typemeta.UnitInterface)
	c.Set("PKG:A", first)
	c.Set("pkg:a", second)
	got, ok := c.Get("Pkg:A")
	if !ok || got != first {
		t.Error("cache should keep the first value, case-insensitively")
	}
}

func TestChainResolver(t *testing.T) {
	miss := typemeta.ResolverFunc(func(string) (*typemeta.TypeMetadata, bool) {
		return nil, false
	})
	want := typemeta.NewTypeMetadata("PKG:B", typemeta.UnitAppClass)
	hit := typemeta.ResolverFunc(func(name string) (*typemeta.TypeMetadata, bool) {
		if name == "PKG:B" {
			return want, true
		}
		return nil, false
	})
	chain := typemeta.ChainResolver{nil, miss, hit}
	got, ok := chain.Resolve("PKG:B")
	if !ok || got != want {
		t.Fatal("chain did not fall through to the hitting resolver")
	}
	if _, ok := chain.Resolve("PKG:C"); ok {
		t.Error("chain resolved a name no resolver knows")
	}
}

func TestBaseChain(t *testing.T) {
	units := map[string]*typemeta.TypeMetadata{}
	add := func(name, base string) {
		m := typemeta.NewTypeMetadata(name, typemeta.UnitAppClass)
		m.BaseClass = base
		units[name] = m
	}
	add("PKG:Sub", "PKG:Mid")
	add("PKG:Mid", "PKG:Base")
	add("PKG:Base", "")
	r := typemeta.ResolverFunc(func(name string) (*typemeta.TypeMetadata, bool) {
		m, ok := units[name]
		return m, ok
	})

	var visited []string
	typemeta.BaseChain(r, nil, "PKG:Sub", func(m *typemeta.TypeMetadata) bool {
		visited = append(visited, m.QualifiedName)
		return true
	})
	if len(visited) != 3 || visited[0] != "PKG:Sub" || visited[2] != "PKG:Base" {
		t.Errorf("chain = %v", visited)
	}

	// A cycle in stored metadata must terminate.
	add("PKG:X", "PKG:Y")
	add("PKG:Y", "PKG:X")
	visited = nil
	typemeta.BaseChain(r, nil, "PKG:X", func(m *typemeta.TypeMetadata) bool {
		visited = append(visited, m.QualifiedName)
		return true
	})
	if len(visited) != 2 {
		t.Errorf("cyclic chain visited %v", visited)
	}
}

func TestMetadataSourceBaseOf(t *testing.T) {
	m := typemeta.NewTypeMetadata("PKG:Sub", typemeta.UnitAppClass)
	m.BaseClass = "PKG:Base"
	cache := typemeta.NewCache()
	cache.Set("PKG:Sub", m)
	src := typemeta.MetadataSource{Cache: cache}

	base, ok := src.BaseOf("PKG:Sub")
	if !ok || base != "PKG:Base" {
		t.Errorf("BaseOf = %q (%v)", base, ok)
	}
	if _, ok := src.BaseOf("PKG:Missing"); ok {
		t.Error("missing unit resolved a base")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.db")
	store, err := typemeta.OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	meta := parseUnit(t, classFixture)
	if err := store.Put(meta); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := store.Resolve("PKG:TEST:Unit")
	if !ok {
		t.Fatal("stored unit did not resolve")
	}
	if got.BaseClass != "PKG:BASE:Entity" {
		t.Errorf("base = %q", got.BaseClass)
	}
	if got.Constructor == nil {
		t.Error("constructor lost in the round trip")
	}
	m, ok := got.Method("Rename")
	if !ok {
		t.Fatal("method lost in the round trip")
	}
	if len(m.Params) != 1 || !m.Params[0].MustBeVariable {
		t.Errorf("out flag lost: %+v", m.Params)
	}
	if m.Return.Kind != types.ReturnFixed || m.Return.Fixed.String() != "boolean" {
		t.Errorf("return lost: %+v", m.Return)
	}
	tags, ok := got.Property("&tags")
	if !ok {
		t.Fatal("instance variable lost in the round trip")
	}
	if tags.String() != "array of string" {
		t.Errorf("&tags = %s", tags)
	}
}

func TestStoreReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.db")
	store, err := typemeta.OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	v1 := typemeta.NewTypeMetadata("PKG:R", typemeta.UnitAppClass)
	v1.Methods["old"] = &types.FunctionInfo{Name: "Old", Return: types.NoReturn()}
	if err := store.Put(v1); err != nil {
		t.Fatal(err)
	}

	v2 := typemeta.NewTypeMetadata("PKG:R", typemeta.UnitAppClass)
	v2.Methods["new"] = &types.FunctionInfo{Name: "New", Return: types.NoReturn()}
	if err := store.Put(v2); err != nil {
		t.Fatal(err)
	}

	got, ok := store.Resolve("PKG:R")
	if !ok {
		t.Fatal("unit missing after replace")
	}
	if _, stale := got.Method("old"); stale {
		t.Error("stale member survived the replace")
	}
	if _, ok := got.Method("new"); !ok {
		t.Error("replacement member missing")
	}
}

func TestStoreMissLooksLikeAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.db")
	store, err := typemeta.OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()
	if _, ok := store.Resolve("PKG:Never"); ok {
		t.Error("empty store resolved a unit")
	}
}
