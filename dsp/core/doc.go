// Package core holds the numeric helpers and processing format shared by the
// chain, its stages and the tools around them.
package core
