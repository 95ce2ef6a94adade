package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/vampirenirmal/qualitygate/internal/config"
	"github.com/vampirenirmal/qualitygate/internal/gate"
)

const usage = `Usage: qualitygate <command> [args]

Commands:
  range <component>                          Print the word window for a component
  sample <component> [knob=value ...]        Sample a target and resolve guidance
  guidance <param> <value> [target_words]    Print guidance for one parameter
  check <component> <variant> <file|-> [attempt]
                                             Judge a draft and print the verdict`

// exitRejected signals a draft that was judged but not accepted
const exitRejected = 2

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if os.Getenv("QUALITYGATE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	g, err := gate.New(cfg, gate.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building quality gate: %v\n", err)
		os.Exit(1)
	}

	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "range":
		err = runRange(g, args)
	case "sample":
		err = runSample(g, args)
	case "guidance":
		err = runGuidance(g, args)
	case "check":
		var accepted bool
		accepted, err = runCheck(g, args)
		if err == nil && !accepted {
			os.Exit(exitRejected)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n%s\n", command, usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRange(g *gate.Gate, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: qualitygate range <component>")
	}
	minWords, maxWords, err := g.Sampler().LengthRange(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d-%d words (variation %d, %.0f%%)\n",
		args[0], minWords, maxWords, g.Sampler().Variation(), g.Sampler().VariationPercentage()*100)
	return nil
}

func runSample(g *gate.Gate, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: qualitygate sample <component> [knob=value ...]")
	}
	knobs := make(map[string]int, len(args)-1)
	for _, arg := range args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("knob %q must be name=value", arg)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("knob %s: %w", name, err)
		}
		knobs[name] = n
	}
	plan, err := g.Plan(args[0], knobs)
	if err != nil {
		return err
	}
	return printJSON(plan)
}

func runGuidance(g *gate.Gate, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: qualitygate guidance <param> <value> [target_words]")
	}
	raw, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	target := 0
	if len(args) == 3 {
		if target, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("target_words: %w", err)
		}
	}
	inst, err := g.Engine().Instance(args[0], raw)
	if err != nil {
		return err
	}
	text, err := g.Engine().Guidance(args[0], raw, target)
	if err != nil {
		return err
	}
	fmt.Printf("%s=%d (%s, %.2f): %s\n", args[0], raw, inst.Tier, inst.Normalized, text)
	return nil
}

func runCheck(g *gate.Gate, args []string) (bool, error) {
	if len(args) < 3 || len(args) > 4 {
		return false, fmt.Errorf("usage: qualitygate check <component> <variant> <file|-> [attempt]")
	}
	text, err := readDraft(args[2])
	if err != nil {
		return false, err
	}
	attempt := 1
	if len(args) == 4 {
		if attempt, err = strconv.Atoi(args[3]); err != nil {
			return false, fmt.Errorf("attempt: %w", err)
		}
	}

	verdict, err := g.Evaluate(context.Background(), gate.Draft{
		Ref:           args[2],
		ComponentType: args[0],
		Variant:       args[1],
		Text:          text,
		Attempt:       attempt,
	})
	if err != nil {
		return false, err
	}
	return verdict.Accepted, printJSON(verdict)
}

func readDraft(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading draft: %w", err)
	}
	return string(data), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
