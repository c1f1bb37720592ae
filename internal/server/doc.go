// Package server describes launchable MCP server types and turns user
// parameter values into the command line each server expects.
//
// A [Descriptor] names a server type, the module the interpreter launches
// and an ordered list of [Param] definitions. [Descriptor.Resolve]
// validates user input and fills defaults; [Descriptor.GenerateArgs] then
// emits flags in descriptor order, normalizing path values against the
// project root.
//
// Descriptors are looked up through a [Registry] that callers construct
// explicitly from one or more [Source] values, e.g. [Builtins] plus a
// plugin directory.
package server
