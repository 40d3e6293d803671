package analyzer

// Context is one lexical scope. Lookups walk the parent chain;
// bindings land in the innermost scope, so shadowing across scopes is
// legal while redefinition within one is not.
type Context struct {
	Parent    *Context
	Variables map[string]Variable
	Functions map[string]Function
}

type Variable struct {
	Name     string
	Constant bool
	Value    int32 // folded value, constants only
}

type Function struct {
	Name         string
	ReturnsValue bool
	NumParams    int
}

func NewContext() *Context {
	return &Context{
		Variables: make(map[string]Variable),
		Functions: make(map[string]Function),
	}
}

func (c *Context) NewContext() *Context {
	ctx := NewContext()
	ctx.Parent = c
	return ctx
}

func (c *Context) LookupVariable(name string) (Variable, bool) {
	if v, ok := c.Variables[name]; ok {
		return v, true
	}
	if c.Parent != nil {
		return c.Parent.LookupVariable(name)
	}
	return Variable{}, false
}

func (c *Context) LookupFunction(name string) (Function, bool) {
	if f, ok := c.Functions[name]; ok {
		return f, true
	}
	if c.Parent != nil {
		return c.Parent.LookupFunction(name)
	}
	return Function{}, false
}

// defined reports whether name is already bound in this scope alone.
func (c *Context) defined(name string) bool {
	if _, ok := c.Variables[name]; ok {
		return true
	}
	_, ok := c.Functions[name]
	return ok
}
