package main

// Import all source adapters to register them via their init() functions
import (
	_ "github.com/forgeapps/advsearch/pkg/sources/changeset"
	_ "github.com/forgeapps/advsearch/pkg/sources/ticket"
	_ "github.com/forgeapps/advsearch/pkg/sources/wiki"
)
