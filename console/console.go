// Package console implements an interactive debug console for a running
// simulation, grounded on dm-vev-adamant/server/console/console.go's
// Console: reads lines from stdin via c-bata/go-prompt when attached to a
// terminal, falls back to a plain bufio.Scanner otherwise (e.g. piped
// input in tests or scripts), and keeps a bounded command history.
package console

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/emberreach/sandfall/world"
	"github.com/emberreach/sandfall/world/material"
)

const (
	defaultPromptPrefix = "sandfall> "
	maxHistoryEntries   = 128
)

// Console reads commands from an io.Reader (defaulting to os.Stdin) and
// runs them against a *world.World.
type Console struct {
	w       *world.World
	log     *slog.Logger
	reader  io.Reader
	history []string
	out     io.Writer
}

// New returns a Console bound to w, logging through log (or slog.Default
// if nil).
func New(w *world.World, log *slog.Logger) *Console {
	if log == nil {
		log = slog.Default()
	}
	return &Console{w: w, log: log, reader: os.Stdin, out: colorable.NewColorableStdout()}
}

// WithReader overrides the input source, enabling tests to drive the
// console without a real terminal.
func (c *Console) WithReader(r io.Reader) *Console {
	if r != nil {
		c.reader = r
	}
	return c
}

// Run consumes commands until ctx is cancelled or the reader hits EOF.
func (c *Console) Run(ctx context.Context) {
	if c.reader != os.Stdin || !isatty.IsTerminal(os.Stdin.Fd()) {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console input error", "err", err)
			}
			return
		}
		c.execute(strings.TrimSpace(scanner.Text()))
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("sandfall console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.execute(line)
	}
}

var commandNames = []string{"get", "set", "pos", "save", "dump-png", "help", "quit"}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := doc.GetWordBeforeCursor()
	suggestions := make([]prompt.Suggest, 0, len(commandNames))
	for _, name := range commandNames {
		suggestions = append(suggestions, prompt.Suggest{Text: name})
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Text < suggestions[j].Text })
	return prompt.FilterHasPrefix(suggestions, word, true)
}

func (c *Console) execute(line string) {
	if line == "" {
		return
	}
	c.history = append(c.history, line)
	if len(c.history) > maxHistoryEntries {
		c.history = c.history[len(c.history)-maxHistoryEntries:]
	}

	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch name {
	case "get":
		err = c.cmdGet(args)
	case "set":
		err = c.cmdSet(args)
	case "pos":
		err = c.cmdPos(args)
	case "save":
		err = c.w.Save()
	case "dump-png":
		err = c.cmdDumpPNG(args)
	case "help":
		c.cmdHelp()
	case "quit":
		err = errQuit
	default:
		err = fmt.Errorf("unknown command %q (try 'help')", name)
	}
	if err != nil && err != errQuit {
		c.log.Error("console command failed", "command", name, "err", err)
	}
}

var errQuit = fmt.Errorf("quit")

func (c *Console) cmdGet(args []string) error {
	x, y, err := parseXY(args)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s\n", c.w.Get(x, y))
	return nil
}

func (c *Console) cmdSet(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: set <x> <y> <material>")
	}
	x, y, err := parseXY(args[:2])
	if err != nil {
		return err
	}
	m, err := parseMaterial(args[2])
	if err != nil {
		return err
	}
	c.w.Set(x, y, m)
	return nil
}

func (c *Console) cmdPos(args []string) error {
	x, y, err := parseXY(args)
	if err != nil {
		return err
	}
	c.w.UpdatePlayerPosition(x, y)
	return nil
}

// cmdDumpPNG writes an active chunk's live RGBA buffer to a PNG file, the
// one supplemental debug command this module adds beyond the original
// physics/streaming contract: there is no in-scope renderer to look at
// generator/physics output with, so this gives a way to inspect it without
// one.
func (c *Console) cmdDumpPNG(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: dump-png <chunk_x> <chunk_y> <path>")
	}
	cx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad chunk x: %w", err)
	}
	cy, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad chunk y: %w", err)
	}
	path := args[2]

	var view *world.ActiveChunkView
	for _, v := range c.w.ActiveChunkViews() {
		if v.Coord.X() == int32(cx) && v.Coord.Y() == int32(cy) {
			v := v
			view = &v
			break
		}
	}
	if view == nil {
		return fmt.Errorf("chunk (%d,%d) is not active", cx, cy)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, chunkImage{view}); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	c.log.Info("wrote chunk snapshot", "coord", view.Coord, "path", path)
	return nil
}

func (c *Console) cmdHelp() {
	fmt.Fprintln(c.out, "commands: get <x> <y> | set <x> <y> <material> | pos <x> <y> | save | dump-png <cx> <cy> <path> | quit")
}

func parseXY(args []string) (x, y int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("usage: <x> <y>")
	}
	x, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad x: %w", err)
	}
	y, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad y: %w", err)
	}
	return x, y, nil
}

func parseMaterial(name string) (material.Material, error) {
	for m := material.Material(0); int(m) < material.Count(); m++ {
		if strings.EqualFold(m.String(), name) {
			return m, nil
		}
	}
	return material.Empty, fmt.Errorf("unknown material %q", name)
}
