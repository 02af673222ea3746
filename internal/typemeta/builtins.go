package typemeta

import (
	"strings"

	"github.com/pclint/pclint/internal/types"
)

func prim(k types.PrimitiveKind) types.TypeInfo { return types.Primitive{Kind: k} }

func fn(name string, ret types.ReturnInfo, params ...types.ParamInfo) *types.FunctionInfo {
	return &types.FunctionInfo{Name: name, Params: params, Return: ret}
}

func param(name string, t types.TypeInfo) types.ParamInfo {
	return types.ParamInfo{Name: name, Type: t}
}

func outParam(name string, t types.TypeInfo) types.ParamInfo {
	return types.ParamInfo{Name: name, Type: t, MustBeVariable: true}
}

// systemVariables is the builtin %-variable table consulted when identifier
// resolution falls through the registry. %This and %Super are special-cased
// by the inference pass before this table is reached.
var systemVariables = map[string]types.TypeInfo{
	"%userid":     prim(types.KindString),
	"%operatorid": prim(types.KindString),
	"%employeeid": prim(types.KindString),
	"%emailaddress": prim(types.KindString),
	"%date":       prim(types.KindDate),
	"%time":       prim(types.KindTime),
	"%datetime":   prim(types.KindDateTime),
	"%currentdatein":  prim(types.KindDate),
	"%currentdateout": prim(types.KindDate),
	"%component":  prim(types.KindString),
	"%menu":       prim(types.KindString),
	"%page":       prim(types.KindString),
	"%action":     prim(types.KindString),
	"%mode":       prim(types.KindString),
	"%language":   prim(types.KindString),
	"%market":     prim(types.KindString),
	"%portal":     prim(types.KindString),
	"%node":       prim(types.KindString),
	"%dbname":     prim(types.KindString),
	"%dbtype":     prim(types.KindString),
	"%dbservername": prim(types.KindString),
	"%sqlrows":    prim(types.KindInteger),
	"%maxinteroperabledbversion": prim(types.KindNumber),
	"%request":    types.BuiltinObject{Name: "Request"},
	"%response":   types.BuiltinObject{Name: "Response"},
	"%session":    types.BuiltinObject{Name: "Session"},
	"%intbroker":  types.BuiltinObject{Name: "IntBroker"},
}

// SystemVariableType returns the type of a builtin %-variable.
func SystemVariableType(name string) (types.TypeInfo, bool) {
	t, ok := systemVariables[strings.ToLower(name)]
	return t, ok
}

// builtinFunctions is the global builtin function table. Return descriptors
// carry the polymorphic kinds the inference pass resolves per call site.
var builtinFunctions = map[string]*types.FunctionInfo{
	"len":   fn("Len", types.FixedReturn(prim(types.KindInteger)), param("source", prim(types.KindString))),
	"lower": fn("Lower", types.FixedReturn(prim(types.KindString)), param("source", prim(types.KindString))),
	"upper": fn("Upper", types.FixedReturn(prim(types.KindString)), param("source", prim(types.KindString))),
	"ltrim": fn("LTrim", types.FixedReturn(prim(types.KindString)), param("source", prim(types.KindString)), param("trim", prim(types.KindString))),
	"rtrim": fn("RTrim", types.FixedReturn(prim(types.KindString)), param("source", prim(types.KindString)), param("trim", prim(types.KindString))),
	"substring": fn("Substring", types.FixedReturn(prim(types.KindString)),
		param("source", prim(types.KindString)), param("start", prim(types.KindNumber)), param("length", prim(types.KindNumber))),
	"find": fn("Find", types.FixedReturn(prim(types.KindInteger)),
		param("find", prim(types.KindString)), param("within", prim(types.KindString))),
	"split": fn("Split", types.FixedReturn(types.Array{Dims: 1, Elem: prim(types.KindString)}),
		param("source", prim(types.KindString)), param("separator", prim(types.KindString))),
	"rept": fn("Rept", types.FixedReturn(prim(types.KindString)),
		param("source", prim(types.KindString)), param("count", prim(types.KindNumber))),
	"string": fn("String", types.FixedReturn(prim(types.KindString)), param("value", types.Any{})),
	"value":  fn("Value", types.FixedReturn(prim(types.KindNumber)), param("source", prim(types.KindString))),
	"int":    fn("Int", types.FixedReturn(prim(types.KindInteger)), param("value", prim(types.KindNumber))),
	"round": fn("Round", types.FixedReturn(prim(types.KindNumber)),
		param("value", prim(types.KindNumber)), param("precision", prim(types.KindNumber))),
	"mod": fn("Mod", types.FixedReturn(prim(types.KindNumber)),
		param("dividend", prim(types.KindNumber)), param("divisor", prim(types.KindNumber))),
	"abs": fn("Abs", types.PolymorphicReturn(types.ReturnSameAsFirstArg), param("value", prim(types.KindNumber))),
	"min": fn("Min", types.PolymorphicReturn(types.ReturnSameAsFirstArg), param("value", prim(types.KindNumber))),
	"max": fn("Max", types.PolymorphicReturn(types.ReturnSameAsFirstArg), param("value", prim(types.KindNumber))),

	"date":     fn("Date", types.FixedReturn(prim(types.KindDate)), param("value", prim(types.KindNumber))),
	"datevalue": fn("DateValue", types.FixedReturn(prim(types.KindDate)), param("source", prim(types.KindString))),
	"timevalue": fn("TimeValue", types.FixedReturn(prim(types.KindTime)), param("source", prim(types.KindString))),
	"weekday":  fn("Weekday", types.FixedReturn(prim(types.KindInteger)), param("value", prim(types.KindDate))),
	"adddays": fn("AddToDate", types.FixedReturn(prim(types.KindDate)),
		param("value", prim(types.KindDate)), param("years", prim(types.KindNumber)), param("months", prim(types.KindNumber)), param("days", prim(types.KindNumber))),

	"all":  &types.FunctionInfo{Name: "All", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true},
	"none": &types.FunctionInfo{Name: "None", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true},

	"msgget": &types.FunctionInfo{Name: "MsgGet", Return: types.FixedReturn(prim(types.KindString)), Variadic: true,
		Params: []types.ParamInfo{
			param("messageSet", prim(types.KindNumber)),
			param("messageNum", prim(types.KindNumber)),
			param("defaultText", prim(types.KindString)),
		}},
	"msggettext": &types.FunctionInfo{Name: "MsgGetText", Return: types.FixedReturn(prim(types.KindString)), Variadic: true,
		Params: []types.ParamInfo{
			param("messageSet", prim(types.KindNumber)),
			param("messageNum", prim(types.KindNumber)),
			param("defaultText", prim(types.KindString)),
		}},

	"createrecord": fn("CreateRecord", types.FixedReturn(types.BuiltinObject{Name: "Record"}),
		param("record", types.Reference{Category: "Record"})),
	"getrecord": fn("GetRecord", types.FixedReturn(types.BuiltinObject{Name: "Record"}),
		param("record", types.Reference{Category: "Record"})),
	"createrowset": &types.FunctionInfo{Name: "CreateRowset", Return: types.FixedReturn(types.BuiltinObject{Name: "Rowset"}), Variadic: true,
		Params: []types.ParamInfo{param("record", types.Reference{Category: "Record"})}},
	"getrowset": &types.FunctionInfo{Name: "GetRowset", Return: types.FixedReturn(types.BuiltinObject{Name: "Rowset"}), Variadic: true},
	"createsql": &types.FunctionInfo{Name: "CreateSQL", Return: types.FixedReturn(types.BuiltinObject{Name: "SQL"}), Variadic: true,
		Params: []types.ParamInfo{param("sql", prim(types.KindString))}},
	"getsql": &types.FunctionInfo{Name: "GetSQL", Return: types.FixedReturn(types.BuiltinObject{Name: "SQL"}), Variadic: true,
		Params: []types.ParamInfo{param("sql", types.Reference{Category: "SQL"})}},
	"sqlexec": &types.FunctionInfo{Name: "SQLExec", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true,
		Params: []types.ParamInfo{param("sql", prim(types.KindString))}},
	"getfile": fn("GetFile", types.FixedReturn(types.BuiltinObject{Name: "File"}),
		param("name", prim(types.KindString)), param("mode", prim(types.KindString))),
	"createexception": &types.FunctionInfo{Name: "CreateException", Return: types.FixedReturn(types.BuiltinObject{Name: "Exception"}), Variadic: true,
		Params: []types.ParamInfo{
			param("messageSet", prim(types.KindNumber)),
			param("messageNum", prim(types.KindNumber)),
		}},

	"createarray":     &types.FunctionInfo{Name: "CreateArray", Return: types.PolymorphicReturn(types.ReturnArrayOfFirstArg), Variadic: true},
	"createarrayrept": fn("CreateArrayRept", types.PolymorphicReturn(types.ReturnArrayOfFirstArg), param("value", types.Any{}), param("count", prim(types.KindNumber))),

	// Transform yields either the transformed markup or a document object,
	// depending on the output option; the union propagates as-is.
	"transform": &types.FunctionInfo{Name: "Transform", Variadic: true,
		Return: types.UnionReturn(prim(types.KindString), types.BuiltinObject{Name: "XmlDoc"})},

	"transfer":  &types.FunctionInfo{Name: "Transfer", Return: types.NoReturn(), Variadic: true},
	"winmessage": &types.FunctionInfo{Name: "WinMessage", Return: types.FixedReturn(prim(types.KindInteger)), Variadic: true,
		Params: []types.ParamInfo{param("message", prim(types.KindString))}},
	"messagebox": &types.FunctionInfo{Name: "MessageBox", Return: types.FixedReturn(prim(types.KindInteger)), Variadic: true,
		Params: []types.ParamInfo{
			param("style", prim(types.KindNumber)),
			param("title", prim(types.KindString)),
			param("messageSet", prim(types.KindNumber)),
			param("messageNum", prim(types.KindNumber)),
			param("defaultText", prim(types.KindString)),
		}},
	"setdefault": fn("SetDefault", types.NoReturn(), outParam("field", types.Any{})),
	"gethtmltext": &types.FunctionInfo{Name: "GetHTMLText", Return: types.FixedReturn(prim(types.KindString)), Variadic: true,
		Params: []types.ParamInfo{param("html", types.Reference{Category: "HTML"})}},
}

// BuiltinFunction returns the builtin function table entry for a name.
func BuiltinFunction(name string) (*types.FunctionInfo, bool) {
	f, ok := builtinFunctions[strings.ToLower(name)]
	return f, ok
}

// ObjectMeta is the fixed member surface of one builtin object type.
type ObjectMeta struct {
	Name       string
	Methods    map[string]*types.FunctionInfo
	Properties map[string]types.TypeInfo
	// Default is invoked when the object itself is called, e.g.
	// &rowset(1) for Rowset.GetRow.
	Default *types.FunctionInfo
}

var builtinObjects = map[string]*ObjectMeta{
	"record": {
		Name: "Record",
		Methods: map[string]*types.FunctionInfo{
			"getfield":    fn("GetField", types.FixedReturn(types.BuiltinObject{Name: "Field"}), param("field", types.Reference{Category: "Field"})),
			"selectbykey": &types.FunctionInfo{Name: "SelectByKey", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true},
			"insert":      fn("Insert", types.FixedReturn(prim(types.KindBoolean))),
			"update":      fn("Update", types.FixedReturn(prim(types.KindBoolean))),
			"delete":      fn("Delete", types.FixedReturn(prim(types.KindBoolean))),
			"save":        fn("Save", types.FixedReturn(prim(types.KindBoolean))),
			"copyfieldsto": fn("CopyFieldsTo", types.NoReturn(), param("target", types.BuiltinObject{Name: "Record"})),
			"setdefault":  fn("SetDefault", types.NoReturn()),
		},
		Properties: map[string]types.TypeInfo{
			"name":       prim(types.KindString),
			"fieldcount": prim(types.KindInteger),
			"ischanged":  prim(types.KindBoolean),
			"isdeleted":  prim(types.KindBoolean),
			"parentrow":  types.BuiltinObject{Name: "Row"},
		},
	},
	"field": {
		Name: "Field",
		Methods: map[string]*types.FunctionInfo{
			"setdefault":   fn("SetDefault", types.NoReturn()),
			"getlonglabel": fn("GetLongLabel", types.FixedReturn(prim(types.KindString)), param("labelId", prim(types.KindString))),
			"getshortlabel": fn("GetShortLabel", types.FixedReturn(prim(types.KindString)), param("labelId", prim(types.KindString))),
		},
		Properties: map[string]types.TypeInfo{
			"value":        types.Any{},
			"name":         prim(types.KindString),
			"fieldname":    prim(types.KindString),
			"recordname":   prim(types.KindString),
			"type":         prim(types.KindString),
			"visible":      prim(types.KindBoolean),
			"enabled":      prim(types.KindBoolean),
			"required":     prim(types.KindBoolean),
			"ischanged":    prim(types.KindBoolean),
			"defaultvalue": prim(types.KindString),
			"label":        prim(types.KindString),
		},
	},
	"rowset": {
		Name: "Rowset",
		Methods: map[string]*types.FunctionInfo{
			"getrow":     fn("GetRow", types.FixedReturn(types.BuiltinObject{Name: "Row"}), param("index", prim(types.KindInteger))),
			"insertrow":  fn("InsertRow", types.FixedReturn(prim(types.KindBoolean)), param("index", prim(types.KindInteger))),
			"deleterow":  fn("DeleteRow", types.FixedReturn(prim(types.KindBoolean)), param("index", prim(types.KindInteger))),
			"fill":       &types.FunctionInfo{Name: "Fill", Return: types.FixedReturn(prim(types.KindInteger)), Variadic: true},
			"flush":      fn("Flush", types.NoReturn()),
			"sort":       &types.FunctionInfo{Name: "Sort", Return: types.NoReturn(), Variadic: true},
			"select":     &types.FunctionInfo{Name: "Select", Return: types.FixedReturn(prim(types.KindInteger)), Variadic: true},
		},
		Properties: map[string]types.TypeInfo{
			"activerowcount": prim(types.KindInteger),
			"rowcount":       prim(types.KindInteger),
			"name":           prim(types.KindString),
			"parentrow":      types.BuiltinObject{Name: "Row"},
		},
		Default: fn("GetRow", types.FixedReturn(types.BuiltinObject{Name: "Row"}), param("index", prim(types.KindInteger))),
	},
	"row": {
		Name: "Row",
		Methods: map[string]*types.FunctionInfo{
			"getrecord": fn("GetRecord", types.FixedReturn(types.BuiltinObject{Name: "Record"}), param("record", types.Reference{Category: "Record"})),
			"getrowset": fn("GetRowset", types.FixedReturn(types.BuiltinObject{Name: "Rowset"}), param("scroll", types.Reference{Category: "Scroll"})),
		},
		Properties: map[string]types.TypeInfo{
			"rownumber":   prim(types.KindInteger),
			"recordcount": prim(types.KindInteger),
			"selected":    prim(types.KindBoolean),
			"visible":     prim(types.KindBoolean),
			"parentrowset": types.BuiltinObject{Name: "Rowset"},
		},
		Default: fn("GetRecord", types.FixedReturn(types.BuiltinObject{Name: "Record"}), param("record", types.Reference{Category: "Record"})),
	},
	"sql": {
		Name: "SQL",
		Methods: map[string]*types.FunctionInfo{
			"execute": &types.FunctionInfo{Name: "Execute", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true},
			"fetch":   &types.FunctionInfo{Name: "Fetch", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true},
			"open":    &types.FunctionInfo{Name: "Open", Return: types.NoReturn(), Variadic: true},
			"close":   fn("Close", types.NoReturn()),
		},
		Properties: map[string]types.TypeInfo{
			"isopen": prim(types.KindBoolean),
			"status": prim(types.KindInteger),
			"value":  types.Any{},
		},
	},
	"file": {
		Name: "File",
		Methods: map[string]*types.FunctionInfo{
			"readline":  fn("ReadLine", types.FixedReturn(prim(types.KindBoolean)), outParam("line", prim(types.KindString))),
			"writeline": fn("WriteLine", types.NoReturn(), param("line", prim(types.KindString))),
			"writestring": fn("WriteString", types.NoReturn(), param("text", prim(types.KindString))),
			"open":      fn("Open", types.FixedReturn(prim(types.KindBoolean)), param("name", prim(types.KindString)), param("mode", prim(types.KindString))),
			"close":     fn("Close", types.NoReturn()),
			"delete":    fn("Delete", types.NoReturn()),
		},
		Properties: map[string]types.TypeInfo{
			"isopen": prim(types.KindBoolean),
			"name":   prim(types.KindString),
		},
	},
	"exception": {
		Name: "Exception",
		Methods: map[string]*types.FunctionInfo{
			"tostring": fn("ToString", types.FixedReturn(prim(types.KindString))),
			"output":   fn("Output", types.NoReturn()),
		},
		Properties: map[string]types.TypeInfo{
			"messagenumber":    prim(types.KindInteger),
			"messagesetnumber": prim(types.KindInteger),
			"defaulttext":      prim(types.KindString),
			"context":          prim(types.KindString),
			"source":           prim(types.KindString),
		},
	},
	"xmldoc": {
		Name: "XmlDoc",
		Methods: map[string]*types.FunctionInfo{
			"parsexmlstring": fn("ParseXmlString", types.FixedReturn(prim(types.KindBoolean)), param("xml", prim(types.KindString))),
			"genxmlstring":   fn("GenXmlString", types.FixedReturn(prim(types.KindString))),
		},
		Properties: map[string]types.TypeInfo{
			"documentelement": types.BuiltinObject{Name: "XmlNode"},
			"isnull":          prim(types.KindBoolean),
		},
	},
	"request": {
		Name: "Request",
		Methods: map[string]*types.FunctionInfo{
			"getparameter":   fn("GetParameter", types.FixedReturn(prim(types.KindString)), param("name", prim(types.KindString))),
			"getheader":      fn("GetHeader", types.FixedReturn(prim(types.KindString)), param("name", prim(types.KindString))),
			"getcookievalue": fn("GetCookieValue", types.FixedReturn(prim(types.KindString)), param("name", prim(types.KindString))),
		},
		Properties: map[string]types.TypeInfo{
			"method":      prim(types.KindString),
			"pathinfo":    prim(types.KindString),
			"querystring": prim(types.KindString),
		},
	},
	"response": {
		Name: "Response",
		Methods: map[string]*types.FunctionInfo{
			"write":       fn("Write", types.NoReturn(), param("text", prim(types.KindString))),
			"setheader":   fn("SetHeader", types.NoReturn(), param("name", prim(types.KindString)), param("value", prim(types.KindString))),
			"redirecturl": fn("RedirectURL", types.NoReturn(), param("url", prim(types.KindString))),
		},
		Properties: map[string]types.TypeInfo{},
	},
	"session": {
		Name: "Session",
		Methods: map[string]*types.FunctionInfo{
			"getcompintfc": fn("GetCompIntfc", types.FixedReturn(types.Any{}), param("name", types.Reference{Category: "CompIntfc"})),
		},
		Properties: map[string]types.TypeInfo{
			"psmessagesmode": prim(types.KindInteger),
		},
	},
	"intbroker": {
		Name: "IntBroker",
		Methods: map[string]*types.FunctionInfo{
			"publish": &types.FunctionInfo{Name: "Publish", Return: types.FixedReturn(prim(types.KindBoolean)), Variadic: true},
		},
		Properties: map[string]types.TypeInfo{},
	},
	"xmlnode": {
		Name:       "XmlNode",
		Methods:    map[string]*types.FunctionInfo{},
		Properties: map[string]types.TypeInfo{"nodename": prim(types.KindString), "nodevalue": prim(types.KindString)},
	},
}

// IsBuiltinObject reports whether the lower-cased name is a builtin object
// type.
func IsBuiltinObject(lower string) bool {
	_, ok := builtinObjects[lower]
	return ok
}

// BuiltinObjectType returns the canonical TypeInfo for a builtin object name.
func BuiltinObjectType(name string) types.TypeInfo {
	if meta, ok := builtinObjects[strings.ToLower(name)]; ok {
		return types.BuiltinObject{Name: meta.Name}
	}
	return types.Unknown{Reason: "not a builtin object: " + name}
}

// BuiltinObjectMeta returns the member tables for a builtin object type.
func BuiltinObjectMeta(name string) (*ObjectMeta, bool) {
	meta, ok := builtinObjects[strings.ToLower(name)]
	return meta, ok
}

// arrayMethods is the intrinsic method table shared by all array types.
// Polymorphic returns are resolved against the concrete receiver.
var arrayMethods = map[string]*types.FunctionInfo{
	"push":    &types.FunctionInfo{Name: "Push", Return: types.NoReturn(), Variadic: true},
	"pop":     fn("Pop", types.PolymorphicReturn(types.ReturnElementOfReceiver)),
	"shift":   fn("Shift", types.PolymorphicReturn(types.ReturnElementOfReceiver)),
	"unshift": &types.FunctionInfo{Name: "Unshift", Return: types.NoReturn(), Variadic: true},
	"clone":   fn("Clone", types.PolymorphicReturn(types.ReturnSameAsReceiver)),
	"reverse": fn("Reverse", types.PolymorphicReturn(types.ReturnSameAsReceiver)),
	"join": fn("Join", types.FixedReturn(prim(types.KindString)),
		param("separator", prim(types.KindString))),
	"find": fn("Find", types.FixedReturn(prim(types.KindInteger)), param("value", types.Any{})),
}

var arrayProperties = map[string]types.TypeInfo{
	"len": prim(types.KindInteger),
}

// ArrayMethod returns the intrinsic array method for a name.
func ArrayMethod(name string) (*types.FunctionInfo, bool) {
	f, ok := arrayMethods[strings.ToLower(name)]
	return f, ok
}

// ArrayProperty returns the intrinsic array property for a name.
func ArrayProperty(name string) (types.TypeInfo, bool) {
	t, ok := arrayProperties[strings.ToLower(name)]
	return t, ok
}

// referenceCategories are the well-known keywords that make a bare
// identifier on the left of a dot a reference expression rather than a
// variable access.
var referenceCategories = map[string]string{
	"record":    "Record",
	"field":     "Field",
	"menuname":  "MenuName",
	"barname":   "BarName",
	"itemname":  "ItemName",
	"page":      "Page",
	"panel":     "Panel",
	"component": "Component",
	"compintfc": "CompIntfc",
	"message":   "Message",
	"interlink": "Interlink",
	"image":     "Image",
	"scroll":    "Scroll",
	"sql":       "SQL",
	"html":      "HTML",
	"stylesheet": "StyleSheet",
	"filelayout": "FileLayout",
	"operation":  "Operation",
	"portal":     "Portal",
	"node":       "Node",
}

// ReferenceCategory returns the canonical reference category for a bare
// identifier, if it is one of the well-known reference keywords.
func ReferenceCategory(name string) (string, bool) {
	c, ok := referenceCategories[strings.ToLower(name)]
	return c, ok
}
