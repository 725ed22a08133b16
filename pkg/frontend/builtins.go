package frontend

// BuiltinRegistry is the fixed, one-way mapping from source-level builtin
// names to IR-level builtin symbols (§4.1); no reverse (IR-to-source)
// lookup is provided. It is seeded once from
// defaultBuiltins and never mutated afterwards — resolution never fails
// with an error, only a boolean, since "is this name a builtin at all" is
// a perfectly ordinary negative answer during scope analysis.
type BuiltinRegistry struct {
	toIR map[string]string
}

// defaultBuiltins is the registry's fixed seed. A few names are renamed on
// the way into the IR to keep them out of the scripting dialect's own
// reserved opcode namespace (§4.1: e.g. "bool" becomes "bool_builtin").
var defaultBuiltins = map[string]string{
	"print":      "print",
	"len":        "len",
	"range":      "range",
	"repr":       "repr",
	"abs":        "abs",
	"min":        "min",
	"max":        "max",
	"sum":        "sum",
	"sorted":     "sorted",
	"enumerate":  "enumerate",
	"zip":        "zip",
	"isinstance": "isinstance",
	"__import__": "__import__",
	"__name__":   "__name__",
	"bool":       "bool_builtin",
	"int":        "int_builtin",
	"str":        "str_builtin",
	"list":       "list_builtin",
	"dict":       "dict_builtin",
	"tuple":      "tuple_builtin",
	"float":      "float_builtin",
	"type":       "type_builtin",
	"None":       "none_builtin",
	"True":       "true_builtin",
	"False":      "false_builtin",
}

// NewBuiltinRegistry constructs a registry seeded with every builtin this
// frontend recognizes.
func NewBuiltinRegistry() *BuiltinRegistry {
	r := &BuiltinRegistry{toIR: make(map[string]string, len(defaultBuiltins))}

	for src, ir := range defaultBuiltins {
		r.toIR[src] = ir
	}

	return r
}

// Resolve looks up name's IR-level builtin symbol. The boolean return
// distinguishes "not a builtin" from "resolves to the empty string", which
// never happens in practice but keeps the API honest.
func (r *BuiltinRegistry) Resolve(name string) (string, bool) {
	ir, ok := r.toIR[name]
	return ir, ok
}
