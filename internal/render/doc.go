// Package render formats scorecards, match lists, career statistics and
// replay reports as text tables for the command line.
package render
