package texts

import "github.com/m3rciful/gotto/internal/hunt"

// Command menu descriptions.
const (
	DescStart hunt.MessageKey = "cmd_start"
	DescHelp  hunt.MessageKey = "cmd_help"
	DescCheck hunt.MessageKey = "cmd_check"
	DescStats hunt.MessageKey = "cmd_stats"
)

// Descriptions lists the command description keys every locale defines.
var Descriptions = []hunt.MessageKey{DescStart, DescHelp, DescCheck, DescStats}
