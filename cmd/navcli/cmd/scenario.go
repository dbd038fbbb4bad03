package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/layers"
	"github.com/fieldforge/navcore/internal/locomotor"
	"github.com/fieldforge/navcore/pkg/navcore"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [name]",
	Short: "Replay a canned end-to-end navigation scenario",
	Long: `Replay one of the built-in scenarios used to validate the navigation
core's end-to-end behavior: a straight-line path on open ground, a route
forced around a stamped obstacle, a bridge that collapses under a unit
(reporting the stranded unit and the lost river crossing), and a
closest-reachable fallback when the goal is walled
off entirely.

Examples:
  navcli scenario open-ground
  navcli scenario bridge-collapse
  navcli scenario unreachable-goal
  navcli scenario aircraft-landing`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "open-ground":
		return scenarioOpenGround()
	case "obstacle-detour":
		return scenarioObstacleDetour()
	case "bridge-collapse":
		return scenarioBridgeCollapse()
	case "unreachable-goal":
		return scenarioUnreachableGoal()
	case "aircraft-landing":
		return scenarioAircraftLanding()
	default:
		return fmt.Errorf("unknown scenario %q (try: open-ground, obstacle-detour, bridge-collapse, unreachable-goal, aircraft-landing)", args[0])
	}
}

func scenarioOpenGround() error {
	e := navcore.New(navcore.DefaultConfig(32, 32, 1.0))
	loc := locomotor.Ground()
	ctx := context.Background()

	path, err := e.FindPath(ctx, geom.Coord{X: 1, Y: 1}, geom.Coord{X: 20, Y: 20}, loc, 1, navcore.SearchOptions{})
	if err != nil {
		return fmt.Errorf("open-ground: %w", err)
	}
	fmt.Printf("open-ground: %d waypoints, starts at %v, ends at %v\n", path.Len(), path.Nodes[0].Pos, path.Nodes[path.Len()-1].Pos)
	return nil
}

func scenarioObstacleDetour() error {
	e := navcore.New(navcore.DefaultConfig(32, 32, 1.0))
	loc := locomotor.Ground()
	ctx := context.Background()

	var wall []geom.Coord
	for y := int32(0); y < 30; y++ {
		wall = append(wall, geom.Coord{X: 16, Y: y})
	}
	e.AddObjectToPathfindMap(7, cellgrid.Footprint{Origin: geom.Coord{}, Cells: wall})

	path, err := e.FindPath(ctx, geom.Coord{X: 1, Y: 15}, geom.Coord{X: 30, Y: 15}, loc, 1, navcore.SearchOptions{})
	if err != nil {
		return fmt.Errorf("obstacle-detour: %w", err)
	}
	fmt.Printf("obstacle-detour: %d waypoints routed around the wall\n", path.Len())
	return nil
}

func scenarioBridgeCollapse() error {
	e := navcore.New(navcore.DefaultConfig(40, 10, 1.0))
	loc := locomotor.Ground()
	ctx := context.Background()

	// A river splits the map down the middle; the only crossing is a bridge.
	for y := int32(0); y < 10; y++ {
		e.Classify(geom.Coord{X: 20, Y: y}, cellgrid.TerrainWater)
	}
	bridgeID := e.AddBridge(1, 1, 0.0,
		[]geom.Coord{{X: 19, Y: 5}, {X: 21, Y: 5}},
		[]geom.Coord{{X: 0, Y: 0}, {X: 0, Y: 0}},
	)

	path, err := e.FindPath(ctx, geom.Coord{X: 1, Y: 5}, geom.Coord{X: 38, Y: 5}, loc, 1, navcore.SearchOptions{})
	if err != nil {
		return fmt.Errorf("bridge-collapse: initial route: %w", err)
	}
	fmt.Printf("bridge-collapse: initial route has %d waypoints\n", path.Len())

	// A unit mid-crossing when the bridge rubbles: tracked on bridgeID so
	// the collapse can report it as stranded.
	if err := e.UpdatePos(5, bridgeID, geom.Coord{X: 0, Y: 0}); err != nil {
		return fmt.Errorf("bridge-collapse: placing unit on bridge: %w", err)
	}

	stranded, err := e.ChangeBridgeState(bridgeID, layers.BridgeStateRubble)
	if err != nil {
		return fmt.Errorf("bridge-collapse: destroying bridge: %w", err)
	}
	fmt.Printf("bridge-collapse: %d unit(s) stranded on the collapsed span\n", len(stranded))

	reachable, err := e.QuickDoesPathExist(ctx, geom.Coord{X: 1, Y: 5}, geom.Coord{X: 38, Y: 5}, loc)
	if err != nil {
		return fmt.Errorf("bridge-collapse: %w", err)
	}
	fmt.Printf("bridge-collapse: after rubbling, reachable=%v (river has no other crossing)\n", reachable)
	return nil
}

func scenarioUnreachableGoal() error {
	e := navcore.New(navcore.DefaultConfig(20, 20, 1.0))
	loc := locomotor.Ground()
	ctx := context.Background()

	var ring []geom.Coord
	for x := int32(8); x <= 12; x++ {
		ring = append(ring, geom.Coord{X: x, Y: 8}, geom.Coord{X: x, Y: 12})
	}
	for y := int32(9); y <= 11; y++ {
		ring = append(ring, geom.Coord{X: 8, Y: y}, geom.Coord{X: 12, Y: y})
	}
	e.AddObjectToPathfindMap(9, cellgrid.Footprint{Origin: geom.Coord{}, Cells: ring})

	_, closestTo, err := e.FindClosestPath(ctx, geom.Coord{X: 1, Y: 1}, geom.Coord{X: 10, Y: 10}, loc, 1, navcore.SearchOptions{})
	if err != nil {
		return fmt.Errorf("unreachable-goal: %w", err)
	}
	fmt.Printf("unreachable-goal: closest reachable point is %v (goal %v is sealed inside a ring)\n", closestTo, geom.Coord{X: 10, Y: 10})
	return nil
}

func scenarioAircraftLanding() error {
	e := navcore.New(navcore.DefaultConfig(20, 20, 1.0))
	air := locomotor.Air()

	// A lake sits right where the second aircraft wants to land.
	e.Classify(geom.Coord{X: 10, Y: 10}, cellgrid.TerrainWater)

	landingZone := geom.Coord{X: 10, Y: 10}
	if err := e.UpdateAircraftGoal(1, landingZone); err != nil {
		return fmt.Errorf("aircraft-landing: claiming for unit 1: %w", err)
	}

	cand, ok := e.AdjustToLandingDestination(landingZone, air, 5)
	if !ok {
		return fmt.Errorf("aircraft-landing: no free landing cell found near %v", landingZone)
	}
	fmt.Printf("aircraft-landing: unit 2 diverted to %v (requested cell is water and/or already claimed)\n", cand)

	if err := e.UpdateAircraftGoal(2, cand); err != nil {
		return fmt.Errorf("aircraft-landing: claiming for unit 2: %w", err)
	}

	return nil
}
