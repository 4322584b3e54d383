package pipeline

// Context carries the build facts shared by all tasks in a pipeline. The
// well-known fields cover the core project metadata; everything else lives in
// the open extension map. By convention a task only writes extension keys
// prefixed with its own name ("delegate.tool", "rebuild.deps", ...); shared
// keys are documented on the task that owns them. The context is passed by
// pointer and never locked since pipeline execution is single-threaded.
type Context struct {
	ProjectName string
	Version     string
	// Dependencies holds descriptor dependency entries in "name version" form.
	Dependencies []string
	SourcePaths  []string
	// Tasks is the registry the pipeline was built from, for tasks that need
	// introspection (help).
	Tasks *Registry

	values map[string]interface{}
}

func NewContext(reg *Registry) *Context {
	return &Context{
		Tasks:  reg,
		values: make(map[string]interface{}),
	}
}

// Set stores an extension value under the given key.
func (b *Context) Set(key string, value interface{}) {
	b.values[key] = value
}

// Get returns the extension value stored under key.
func (b *Context) Get(key string) (interface{}, bool) {
	value, found := b.values[key]
	return value, found
}

// GetString returns the extension value under key if it is a string, else "".
func (b *Context) GetString(key string) string {
	if value, found := b.values[key]; found {
		if str, ok := value.(string); ok {
			return str
		}
	}

	return ""
}

// GetStrings returns the extension value under key if it is a string slice.
func (b *Context) GetStrings(key string) []string {
	if value, found := b.values[key]; found {
		if list, ok := value.([]string); ok {
			return list
		}
	}

	return nil
}

// Append appends items to the string slice stored under key, creating it if
// necessary.
func (b *Context) Append(key string, items ...string) {
	b.values[key] = append(b.GetStrings(key), items...)
}
