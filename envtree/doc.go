/*
Package envtree provides utilities for loading environment variables from
dotenv files.

It automatically searches for .env files in the current directory and all
parent directories, making it perfect for monorepos and nested project
structures. Files are parsed and published by the dotenv loader, so quoted
and multiline values, variable expansion, and encrypted files all work the
same way they do through dotenv.Load.

# Quick Start

The simplest way to use envtree is with AutoLoad in your init function:

	package main

	import "github.com/signalforge/dotenv/envtree"

	func init() {
		envtree.AutoLoad()
	}

	func main() {
		// Your environment variables are now loaded
	}

# Loading Strategies

envtree provides several ways to load environment files:

AutoLoad - For use in init(), loads with default settings and logs errors:

	envtree.AutoLoad()

LoadDefault - Returns error for explicit handling:

	if err := envtree.LoadDefault(); err != nil {
		log.Fatal(err)
	}

MustLoadDefault - Panics on error:

	envtree.MustLoadDefault()

Custom Configuration - Fine-grained control:

	config := &envtree.Config{
		EnvFileName: ".env.production",
		Silent:      true,
	}
	loader := envtree.New(config)
	loader.Load()

# How It Works

The loader walks up the directory tree from the current working directory,
collecting all .env files found along the way. Files are then loaded in
order, closest directory first. With LoadOptions.Override off (the default),
publishing never overrides variables that already exist, so the file closest
to the working directory wins:

	/
	├── .env                    # Loaded (3rd priority)
	└── projects/
	    ├── .env                # Loaded (2nd priority)
	    └── myapp/
	        ├── .env            # Loaded (1st priority)
	        └── cmd/
	            └── main.go     # Your app runs here

# Encrypted Files

Files wrapped in the dotenv encryption envelope are decrypted on the fly.
Provide the passphrase through LoadOptions or the SIGNALFORGE_DOTENV_KEY
environment variable:

	config := envtree.DefaultConfig()
	config.LoadOptions.KeyEnv = "MY_DOTENV_KEY"
	envtree.New(config).MustLoad()
*/
package envtree
