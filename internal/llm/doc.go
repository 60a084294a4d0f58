// Package llm provides a config-driven LLM adapter built on the REST client.
//
// The adapter works with any chat-completion provider via the Dialect
// pattern, similar to how database/sql works with driver packages.
//
// Import a dialect driver package for side-effect registration, then create
// an adapter:
//
//	import (
//	    "github.com/seedlabs/formseed/internal/llm"
//	    _ "github.com/seedlabs/formseed/internal/llm/openai" // registers "openai"
//	)
//
//	adapter, err := llm.New(llm.Config{
//	    Dialect: "openai",
//	    BaseURL: "https://api.openai.com",
//	    Model:   "gpt-4",
//	})
package llm
