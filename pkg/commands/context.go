package commands

// Context carries the session state a command may need.
type Context struct {
	Args          string
	Language      string
	Languages     []string
	KnownLanguage string
	LastReply     string // latest tutor answer; never a notice, error or command output
}

// NewContext creates a new command context
func NewContext(args, language string, languages []string) *Context {
	return &Context{
		Args:      args,
		Language:  language,
		Languages: languages,
	}
}
