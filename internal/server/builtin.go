package server

// Builtins returns the source of descriptors shipped with mcpconf.
// Each call returns fresh values.
func Builtins() Source {
	return SourceFunc(func() ([]*Descriptor, error) {
		return builtinDescriptors(), nil
	})
}

func builtinDescriptors() []*Descriptor {
	return []*Descriptor{
		{
			TypeName:     "filesystem",
			DisplayName:  "Filesystem",
			LaunchModule: "mcp_server_filesystem",
			Description:  "Read and edit files under one or more allowed directories",
			Params: []Param{
				{Name: "root", Type: TypePath, Required: true, Help: "Primary directory the server may access"},
				{Name: "allowed-dir", Type: TypePath, Repeatable: true, Help: "Additional directory the server may access"},
				{Name: "exclude", Type: TypeString, Repeatable: true, Help: "Glob pattern to hide from the server"},
				{Name: "read-only", Type: TypeBoolean, IsFlag: true, Help: "Disable write tools"},
			},
		},
		{
			TypeName:     "git",
			DisplayName:  "Git",
			LaunchModule: "mcp_server_git",
			Description:  "Inspect and operate on a local git repository",
			Params: []Param{
				{Name: "repository", Flag: "--repo", Type: TypePath, Default: ".", Help: "Repository working tree"},
				{Name: "branch", Type: TypeString, Help: "Branch to check out before serving"},
				{Name: "sign-commits", Type: TypeBoolean, IsFlag: true, Help: "GPG-sign commits created by the server"},
			},
		},
		{
			TypeName:     "fetch",
			DisplayName:  "Fetch",
			LaunchModule: "mcp_server_fetch",
			Description:  "Fetch web pages and convert them to markdown",
			Params: []Param{
				{Name: "user-agent", Type: TypeString, Help: "User-Agent header sent with requests"},
				{Name: "proxy-url", Type: TypeString, Help: "HTTP proxy to route requests through"},
				{Name: "ignore-robots-txt", Type: TypeBoolean, IsFlag: true, Help: "Fetch pages even when robots.txt forbids it"},
			},
		},
		{
			TypeName:     "sqlite",
			DisplayName:  "SQLite",
			LaunchModule: "mcp_server_sqlite",
			Description:  "Query a SQLite database file",
			Params: []Param{
				{Name: "db-path", Type: TypePath, Required: true, Help: "Database file"},
				{Name: "mode", Type: TypeChoice, Choices: []string{"read-only", "read-write"}, Default: "read-only", Help: "Access mode"},
			},
		},
		{
			TypeName:     "memory",
			DisplayName:  "Memory",
			LaunchModule: "mcp_server_memory",
			Description:  "Persistent knowledge-graph memory",
			Params: []Param{
				{Name: "storage-file", Type: TypePath, Default: "memory.json", Help: "File the graph is stored in"},
				{Name: "namespace", Type: TypeString, Help: "Isolate entries under this namespace"},
			},
		},
	}
}
