// Package tui renders forms as an interactive terminal session built on
// survey prompts.
package tui
