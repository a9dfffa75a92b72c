// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

var (
	// Version holds the CLI version information.
	// It is set at build time using -ldflags and is reported to the deployment
	// in the Convex-Client header.
	Version = "0.0.0-dev"
)
