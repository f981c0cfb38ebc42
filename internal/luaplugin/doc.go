// Package luaplugin loads features written in Lua. A feature script is
// evaluated once in a sandboxed state and must return a table:
//
//	return {
//	  install = { { name = "port", type = "number", default = 8080 } },
//	  env = { { name = "DEBUG", type = "confirm" } },
//	  beforeInstall = function(config, utils)
//	    config.package.dependencies = config.package.dependencies or {}
//	    config.package.dependencies.express = "^4.18.0"
//	  end,
//	}
//
// Hooks receive the configuration as a table and may change it in place;
// raising an error with error() fails the hook.
package luaplugin
