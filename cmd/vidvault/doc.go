// Package main hosts the vidvault CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into the
// library workflows: pulling media off devices, staging tagging batches,
// running full builds, inspecting the tag ledger, and configuration
// scaffolding. It centralizes configuration resolution and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
