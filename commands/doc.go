// Package commands implements the custodyd command line interface.
package commands
