package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kamusis/agent-scout/internal/interview"
)

// ── Unified output helpers ────────────────────────────────────────────────────
// All commands use these functions to ensure consistent icon usage and
// indentation throughout scout's CLI output.
//
// Icon semantics:
//   ✓  success / healthy
//   ✗  error / failure          (written to stderr)
//   ⚠  warning
//   ○  skipped / not applicable
//   ~  neutral info / state change

// printSection prints a top-level section header, e.g. "=== Interview ===".
func printSection(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

// printOK prints a success line.
//   name = "" → "  ✓  msg"
//   name set  → "  ✓  [name] msg"
func printOK(name, msg string) {
	if name == "" {
		fmt.Printf("  ✓  %s\n", msg)
	} else {
		fmt.Printf("  ✓  [%s] %s\n", name, msg)
	}
}

// printErr prints an error line to stderr.
func printErr(name, msg string) {
	if name == "" {
		fmt.Fprintf(os.Stderr, "  ✗  %s\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "  ✗  [%s] %s\n", name, msg)
	}
}

// printWarn prints a warning line.
func printWarn(name, msg string) {
	if name == "" {
		fmt.Printf("  ⚠  %s\n", msg)
	} else {
		fmt.Printf("  ⚠  [%s] %s\n", name, msg)
	}
}

// printSkip prints a skipped / not-applicable line.
func printSkip(name, msg string) {
	if name == "" {
		fmt.Printf("  ○  %s\n", msg)
	} else {
		fmt.Printf("  ○  [%s] %s\n", name, msg)
	}
}

// printInfo prints a neutral informational / state-change line.
func printInfo(name, msg string) {
	if name == "" {
		fmt.Printf("  ~  %s\n", msg)
	} else {
		fmt.Printf("  ~  [%s] %s\n", name, msg)
	}
}

// printInterview prints one result as an "=== Interview ===" block.
func printInterview(res *interview.Result) {
	printSection("Interview")
	answer := "(no response)"
	if res.Answer != nil {
		answer = *res.Answer
	}
	eval, _ := json.Marshal(res.Evaluation)
	fmt.Printf("Candidate:  %s\n", res.Candidate)
	fmt.Printf("Task:       %s\n", res.Task)
	fmt.Printf("Question:   %s\n", res.Question)
	fmt.Printf("Answer:     %s\n", answer)
	fmt.Printf("Evaluation: %s\n", eval)
}
