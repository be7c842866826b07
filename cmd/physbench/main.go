// Headless stress test: a box pyramid settling on a segment floor.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stonejiang208/phys2d"
)

func main() {
	rows := flag.Int("rows", 20, "pyramid rows (bodies = rows*(rows+1)/2)")
	steps := flag.Int("steps", 600, "simulation steps")
	substeps := flag.Int("substeps", 1, "substeps per step")
	tuningPath := flag.String("tuning", "", "optional tuning YAML file")
	flag.Parse()

	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	world.SetSubsteps(*substeps)

	if *tuningPath != "" {
		t, err := phys2d.LoadTuning(*tuningPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tuning: %v\n", err)
			os.Exit(1)
		}
		if err := world.SetTuning(t); err != nil {
			fmt.Fprintf(os.Stderr, "tuning: %v\n", err)
			os.Exit(1)
		}
	}

	buildPyramid(world, *rows)
	bodies := len(world.Bodies())

	start := time.Now()
	for i := 0; i < *steps; i++ {
		if err := world.Step(1.0 / 60.0); err != nil {
			fmt.Fprintf(os.Stderr, "step %d: %v\n", i, err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(*steps)
	fmt.Printf("%5d bodies | %d steps x %d substeps | total %v | %v/step | sim time %.2fs\n",
		bodies, *steps, *substeps, elapsed.Round(time.Millisecond),
		perStep.Round(time.Microsecond), world.Time())

	// A settled pyramid is the sanity check: the top box should still sit
	// near its spawn column.
	top := world.Bodies()[bodies-1]
	fmt.Printf("top box at (%.3f, %.3f), velocity (%.4f, %.4f)\n",
		top.Position().X, top.Position().Y, top.Velocity().X, top.Velocity().Y)
}

func buildPyramid(world *phys2d.World, rows int) {
	ground := world.CreateStaticBody(phys2d.Vec2{})
	floor, err := phys2d.NewSegmentShape(phys2d.Vec2{X: -100.0}, phys2d.Vec2{X: 100.0}, phys2d.DefaultMaterial)
	if err != nil {
		panic(err)
	}
	if err := ground.AttachShape(floor); err != nil {
		panic(err)
	}

	const half = 0.5
	for row := 0; row < rows; row++ {
		count := rows - row
		y := half + float64(row)*2.0*half
		x0 := -float64(count-1) * half
		for i := 0; i < count; i++ {
			b := world.CreateDynamicBody(phys2d.Vec2{X: x0 + float64(i)*2.0*half, Y: y})
			box, err := phys2d.NewBoxShape(2.0*half, 2.0*half, phys2d.Vec2{}, phys2d.DefaultMaterial)
			if err != nil {
				panic(err)
			}
			if err := b.AttachShape(box); err != nil {
				panic(err)
			}
		}
	}
}
