// Package paths resolves where host applications keep their MCP
// configuration files, and where mcpconf keeps its own settings.
//
// User-scope locations depend on the operating system:
//
//	| Host            | macOS                                   | Windows             | Linux                |
//	|-----------------|-----------------------------------------|---------------------|----------------------|
//	| Claude Desktop  | ~/Library/Application Support/Claude/   | %APPDATA%\Claude\   | ~/.config/Claude/    |
//	| VS Code (user)  | ~/Library/Application Support/Code/User | %APPDATA%\Code\User | ~/.config/Code/User  |
//
// Project-scope files live under the project root (.vscode/mcp.json and
// .mcp.json). mcpconf's own config and plugin descriptors live under the
// XDG config home, resolved with github.com/adrg/xdg.
package paths
