package typemeta

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pclint/pclint/internal/types"
)

// StoreResolver resolves metadata from a SQLite store extracted from a full
// system scan. The store is read-only at analysis time.
type StoreResolver struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS units (
	qualified_name TEXT PRIMARY KEY COLLATE NOCASE,
	kind           INTEGER NOT NULL,
	base_class     TEXT NOT NULL DEFAULT '',
	base_builtin   INTEGER NOT NULL DEFAULT 0,
	interface      TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS members (
	unit    TEXT NOT NULL COLLATE NOCASE,
	section TEXT NOT NULL,
	name    TEXT NOT NULL,
	type    TEXT NOT NULL DEFAULT '',
	params  TEXT NOT NULL DEFAULT '',
	FOREIGN KEY(unit) REFERENCES units(qualified_name)
);
CREATE INDEX IF NOT EXISTS members_unit ON members(unit);
`

const (
	sectionMethod      = "method"
	sectionConstructor = "constructor"
	sectionProperty    = "property"
	sectionInstance    = "instance"
	sectionFunction    = "function"
)

// OpenStore opens (and if necessary initializes) a metadata store.
func OpenStore(path string) (*StoreResolver, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open metadata store %s: %w", path, err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init metadata store %s: %w", path, err)
	}
	return &StoreResolver{db: db}, nil
}

func (s *StoreResolver) Close() error { return s.db.Close() }

// Resolve implements Resolver.
func (s *StoreResolver) Resolve(qualifiedName string) (*TypeMetadata, bool) {
	var (
		kind        int
		baseClass   string
		baseBuiltin int
		iface       string
	)
	err := s.db.QueryRow(
		`SELECT kind, base_class, base_builtin, interface FROM units WHERE qualified_name = ?`,
		qualifiedName,
	).Scan(&kind, &baseClass, &baseBuiltin, &iface)
	if err != nil {
		return nil, false
	}

	meta := NewTypeMetadata(qualifiedName, UnitKind(kind))
	meta.BaseClass = baseClass
	meta.BaseIsBuiltin = baseBuiltin != 0
	meta.Interface = iface

	rows, err := s.db.Query(
		`SELECT section, name, type, params FROM members WHERE unit = ?`,
		qualifiedName,
	)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	for rows.Next() {
		var section, name, typeStr, paramStr string
		if err := rows.Scan(&section, &name, &typeStr, &paramStr); err != nil {
			continue
		}
		key := strings.ToLower(name)
		switch section {
		case sectionMethod:
			meta.Methods[key] = decodeFunction(name, typeStr, paramStr)
		case sectionConstructor:
			meta.Constructor = decodeFunction(name, typeStr, paramStr)
		case sectionProperty:
			meta.Properties[key] = ParseTypeString(typeStr)
		case sectionInstance:
			meta.Instance[key] = ParseTypeString(typeStr)
		case sectionFunction:
			meta.Functions[key] = decodeFunction(name, typeStr, paramStr)
		}
	}
	if rows.Err() != nil {
		return nil, false
	}
	return meta, true
}

// Put writes one unit's metadata, replacing any previous entry.
func (s *StoreResolver) Put(meta *TypeMetadata) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM members WHERE unit = ?`, meta.QualifiedName); err != nil {
		return err
	}
	builtin := 0
	if meta.BaseIsBuiltin {
		builtin = 1
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO units (qualified_name, kind, base_class, base_builtin, interface) VALUES (?, ?, ?, ?, ?)`,
		meta.QualifiedName, int(meta.Kind), meta.BaseClass, builtin, meta.Interface,
	); err != nil {
		return err
	}

	insert := func(section, name, typeStr, paramStr string) error {
		_, err := tx.Exec(
			`INSERT INTO members (unit, section, name, type, params) VALUES (?, ?, ?, ?, ?)`,
			meta.QualifiedName, section, name, typeStr, paramStr,
		)
		return err
	}
	for _, f := range meta.Methods {
		ret, params := encodeFunction(f)
		if err := insert(sectionMethod, f.Name, ret, params); err != nil {
			return err
		}
	}
	if meta.Constructor != nil {
		ret, params := encodeFunction(meta.Constructor)
		if err := insert(sectionConstructor, meta.Constructor.Name, ret, params); err != nil {
			return err
		}
	}
	for name, t := range meta.Properties {
		if err := insert(sectionProperty, name, t.String(), ""); err != nil {
			return err
		}
	}
	for name, t := range meta.Instance {
		if err := insert(sectionInstance, name, t.String(), ""); err != nil {
			return err
		}
	}
	for _, f := range meta.Functions {
		ret, params := encodeFunction(f)
		if err := insert(sectionFunction, f.Name, ret, params); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Parameter rows are "name|type|out" triples joined with ";". The member
// names never contain either delimiter.
func encodeFunction(f *types.FunctionInfo) (returnStr, paramStr string) {
	if f.Return.Kind == types.ReturnFixed && f.Return.Fixed != nil {
		returnStr = f.Return.Fixed.String()
	}
	parts := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		out := "0"
		if p.MustBeVariable {
			out = "1"
		}
		typeStr := ""
		if p.Type != nil {
			typeStr = p.Type.String()
		}
		parts = append(parts, p.Name+"|"+typeStr+"|"+out)
	}
	return returnStr, strings.Join(parts, ";")
}

func decodeFunction(name, returnStr, paramStr string) *types.FunctionInfo {
	info := &types.FunctionInfo{Name: name, Return: types.NoReturn()}
	if returnStr != "" {
		info.Return = types.FixedReturn(ParseTypeString(returnStr))
	}
	if paramStr == "" {
		return info
	}
	for _, part := range strings.Split(paramStr, ";") {
		fields := strings.SplitN(part, "|", 3)
		pi := types.ParamInfo{Type: types.Any{}}
		pi.Name = fields[0]
		if len(fields) > 1 && fields[1] != "" {
			pi.Type = ParseTypeString(fields[1])
		}
		if len(fields) > 2 && fields[2] == "1" {
			pi.MustBeVariable = true
		}
		info.Params = append(info.Params, pi)
	}
	return info
}
