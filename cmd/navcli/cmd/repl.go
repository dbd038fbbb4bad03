package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/locomotor"
	"github.com/fieldforge/navcore/internal/navpath"
	"github.com/fieldforge/navcore/pkg/navcore"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive pathfind query shell",
	Long: `Open an interactive shell over the demonstration grid (or --map, once
loading is wired in) for issuing one-off pathfind queries without writing a
scenario.

Commands:
  path x1 y1 x2 y2     run findPath between two cells
  closest x1 y1 x2 y2  run findClosestPath between two cells
  exists x1 y1 x2 y2   run quickDoesPathExist between two cells
  quit                 leave the shell`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	e := demoEngine()
	loc := locomotor.Ground()
	ctx := context.Background()

	rl, err := readline.New("navcli> ")
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "path", "closest", "exists":
			handleQuery(ctx, e, loc, fields)
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
}

func handleQuery(ctx context.Context, e *navcore.Engine, loc locomotor.Set, fields []string) {
	if len(fields) != 5 {
		fmt.Println("usage: <path|closest|exists> x1 y1 x2 y2")
		return
	}
	coords := make([]int32, 4)
	for i, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			fmt.Printf("not a number: %q\n", f)
			return
		}
		coords[i] = int32(v)
	}
	from := geom.Coord{X: coords[0], Y: coords[1]}
	to := geom.Coord{X: coords[2], Y: coords[3]}

	switch fields[0] {
	case "exists":
		ok, err := e.QuickDoesPathExist(ctx, from, to, loc)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("reachable:", ok)
	case "closest":
		path, closestTo, err := e.FindClosestPath(ctx, from, to, loc, 1, navcore.SearchOptions{})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("closest reachable point: %v\n", closestTo)
		printPath(path.Nodes)
	case "path":
		path, err := e.FindPath(ctx, from, to, loc, 1, navcore.SearchOptions{})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		printPath(path.Nodes)
	}
}

func printPath(nodes []navpath.Node) {
	fmt.Printf("%d waypoints:", len(nodes))
	for _, n := range nodes {
		fmt.Printf(" (%d,%d)", n.Pos.X, n.Pos.Y)
	}
	fmt.Println()
}
