package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

// A handler carries out a command with the arguments that followed it.
type handler func(h *Host, c *cmd.Command, args []string) error

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "steprules"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display the list of commands, or the syntax and description of a single command.",
		Usage:       "help [<command>]",
		Data:        handler((*Host).cmdHelp),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load an instruction table",
		Description: "Load an instruction table from a file, replacing the current one." +
			" Each line holds HEX;MNEMONIC;MODE with an optional fourth variant field.",
		Usage: "load <filename>",
		Data:  handler((*Host).cmdLoad),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "generate",
		Brief: "Generate the step rule table",
		Description: "Generate the 65C02 and 6502 step rule tables from the current" +
			" instruction table. The output is written to the named file, or displayed" +
			" when no file is given.",
		Usage: "generate [<filename>]",
		Data:  handler((*Host).cmdGenerate),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "lookup",
		Brief: "Look up an opcode or mnemonic",
		Description: "Display the instruction records for an opcode or mnemonic along" +
			" with the step rule each processor variant assigns to them. Opcodes are" +
			" hexadecimal expressions such as 4C or $20+1.",
		Usage: "lookup <opcode>|<mnemonic>",
		Data:  handler((*Host).cmdLookup),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "records",
		Brief:       "List instruction records",
		Description: "List every record in the current instruction table in opcode order.",
		Usage:       "records",
		Data:        handler((*Host).cmdRecords),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "mnemonics",
		Brief:       "List mnemonics",
		Description: "List the distinct mnemonics of the current table in first-seen order.",
		Usage:       "mnemonics",
		Data:        handler((*Host).cmdMnemonics),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "dump",
		Brief:       "Dump an instruction record",
		Description: "Display the full internal contents of the record for an opcode.",
		Usage:       "dump <opcode>",
		Data:        handler((*Host).cmdDump),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "step",
		Brief: "Compute the next instruction addresses",
		Description: "Place instruction bytes at an address and display the addresses" +
			" a single step may reach from there on each processor variant." +
			" Temporary breakpoints are planted at the addresses reached by the" +
			" processor selected with the CMOS setting.",
		Usage: "step <address> <byte> [<byte> ...]",
		Data:  handler((*Host).cmdStep),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the current" +
			" values of all configuration variables, type set without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  handler((*Host).cmdSet),
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        handler((*Host).cmdQuit),
	})
	root.AddShortcut("?", "help")

	// Breakpoint commands
	bp := root.AddSubtree(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints, including temporary ones planted by step.",
		Usage:       "breakpoint list",
		Data:        handler((*Host).cmdBreakpointList),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
		Data:  handler((*Host).cmdBreakpointAdd),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
		Data:        handler((*Host).cmdBreakpointRemove),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
		Data:        handler((*Host).cmdBreakpointEnable),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from stopping execution.",
		Usage: "breakpoint disable <address>",
		Data:  handler((*Host).cmdBreakpointDisable),
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "reach",
		Brief: "Report whether an address stops execution",
		Description: "Report whether the program counter reaching an address" +
			" returns control to the monitor. When it does, all temporary" +
			" breakpoints are cleared.",
		Usage: "breakpoint reach <address>",
		Data:  handler((*Host).cmdBreakpointReach),
	})

	cmds = root
}
