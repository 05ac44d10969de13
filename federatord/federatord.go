// Package federatord wires the coordinator and participant daemons
// behind cobra commands.
package federatord

var (
	logLevel   = "info"
	configPath = ""
)
