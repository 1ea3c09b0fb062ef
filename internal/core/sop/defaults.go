package sop

// Defaults returns the SOP set shipped with the tool. It is written
// to the global document on first install only; user edits are never
// overwritten.
//
// Order matters: COMMAND_NOT_FOUND sits before FILE_NOT_FOUND because
// "command not found" also contains the broader "not found" pattern.
func Defaults() *Document {
	doc := NewDocument()

	doc.SOPs.Put("SHELL_PARSE_ERROR", SOP{
		Description: "Shell cannot parse command substitution or special characters",
		Patterns:    []string{"parse error", "bad substitution", "unterminated"},
		Causes: []string{
			"Nested $(...) substitution in a single command",
			"Unbalanced quotes or escapes",
		},
		Fixes: []string{
			"Avoid $(...) - use simple pipes instead",
			"Split complex commands into multiple simple commands",
			"Run the simple command first, then use the result in the next command",
		},
		Examples: &Examples{
			Bad:  "VAR=$(cmd); use $VAR",
			Good: "cmd | next_cmd",
		},
	})

	doc.SOPs.Put("COMMAND_NOT_FOUND", SOP{
		Description: "Command or binary doesn't exist or isn't in PATH",
		Patterns:    []string{"command not found"},
		Causes: []string{
			"Tool not installed",
			"PATH missing the install location",
		},
		Fixes: []string{
			"Check if installed: which <command>",
			"Install if needed: brew install <package>",
			"Use an alternative command (grep instead of rg, find instead of fd)",
		},
		Examples: &Examples{
			Bad:  "rg pattern",
			Good: "which rg || grep -r pattern .",
		},
	})

	doc.SOPs.Put("PERMISSION_DENIED", SOP{
		Description: "No permission to execute or access a file",
		Patterns:    []string{"permission denied", "access denied", "eacces"},
		Causes: []string{
			"Script missing the executable bit",
			"File owned by another user",
		},
		Fixes: []string{
			"Make the script executable: chmod +x script.sh",
			"Run with the interpreter: python3 script.py instead of ./script.py",
			"Check file ownership: ls -la file",
		},
		Examples: &Examples{
			Bad:  "./script.py",
			Good: "python3 ./script.py",
		},
	})

	doc.SOPs.Put("FILE_NOT_FOUND", SOP{
		Description: "File or directory doesn't exist",
		Patterns:    []string{"no such file", "enoent", "not found"},
		Causes: []string{
			"Relative path resolved from the wrong directory",
			"Directory not created yet",
		},
		Fixes: []string{
			"Verify the path exists: ls -la <parent_dir>",
			"Check the current directory: pwd",
			"Create the directory if needed: mkdir -p <dir>",
			"Use absolute paths to avoid confusion",
		},
	})

	doc.SOPs.Put("SYNTAX_ERROR", SOP{
		Description: "Interpreter syntax error in inline code",
		Patterns:    []string{"syntax error", "unexpected token", "unexpected"},
		Causes: []string{
			"Quoting conflict between the shell and the inline program",
			"Backslash escapes inside format strings",
		},
		Fixes: []string{
			"Write the program to a script file instead of using -c",
			"Extract values to variables before formatting",
			"Use single quotes for the outer string",
		},
	})

	doc.SOPs.Put("NON_ZERO_EXIT", SOP{
		Description: "Command ran but returned a non-zero exit code",
		Patterns:    []string{"exit status", "exit code"},
		Causes: []string{
			"Some tools use non-zero exits for ordinary conditions (grep with no match)",
		},
		Fixes: []string{
			"Check stderr output for details",
			"For grep: exit 1 just means no match, often not an error",
			"Add || true if the exit code doesn't matter",
			"Check the command arguments are correct",
		},
		Examples: &Examples{
			Bad:  "grep pattern file",
			Good: "grep pattern file || echo 'No matches'",
		},
	})

	return doc
}
