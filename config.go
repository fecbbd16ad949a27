package linguist

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by the command line tool and the REPL.
func NewConfig() *Config {
	m := make(Config)
	// stop enumerating after this many trees; 0 means no limit
	m.SetInt("trees.max", 10)
	// dump the recognizer's chart ahead of each parse's trees
	m.SetBool("trace.chart", false)
	// log forest statistics after each parse
	m.SetBool("trace.forest", false)
	// render trees with box drawing characters, or bracketed
	m.SetString("print.format", "tree")
	// colorize printed trees
	m.SetBool("print.color", true)
	return &m
}

func (c *Config) Debug() string {
	var out strings.Builder
	keys := make([]string, 0, len(*c))
	width := 0
	for k := range *c {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		out.WriteString(k)
		for i := 0; i < width-len(k); i++ {
			out.WriteString(" ")
		}
		out.WriteString(" : ")
		out.WriteString((*c)[k].String())
		out.WriteString("\n")
	}
	return out.String()
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType is mostly for preventing programming errors
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	case cfgValType_String:
		return fmt.Sprintf("%s (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}

// Set parses `raw` according to the declared type of the setting at
// `path`.  This is what the REPL's `:set` command goes through.
func (c *Config) Set(path, raw string) error {
	val, ok := (*c)[path]
	if !ok {
		return fmt.Errorf("setting `%s` does not exist", path)
	}
	switch val.typ {
	case cfgValType_Bool:
		switch raw {
		case "on", "true", "yes":
			val.asBool = true
		case "off", "false", "no":
			val.asBool = false
		default:
			return fmt.Errorf("setting `%s` wants on/off, got `%s`", path, raw)
		}
	case cfgValType_Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("setting `%s` wants an integer, got `%s`", path, raw)
		}
		val.asInt = n
	case cfgValType_String:
		val.asString = raw
	}
	return nil
}
