package main

import (
	"flag"
	"log"
	"time"

	"github.com/setanarut/impulse"
)

func main() {
	configPath := flag.String("config", "", "solver config file (YAML); defaults are used when empty")
	steps := flag.Int("steps", 240, "number of steps to simulate")
	watch := flag.Bool("watch", false, "re-run the scenario whenever the config file changes")
	scenarioName := flag.String("scenario", "box", "scenario to run: box, stack or pendulum")
	every := flag.Int("every", 60, "log a summary every n steps")
	flag.Parse()

	build, ok := scenarios[*scenarioName]
	if !ok {
		log.Fatalf("unknown scenario %q", *scenarioName)
	}

	cfg := impulse.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = impulse.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	run(build, cfg, *steps, *every)
	if !*watch {
		return
	}
	if *configPath == "" {
		log.Fatal("-watch needs -config")
	}

	watcher, err := impulse.NewConfigWatcher(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer watcher.Close()

	log.Printf("watching %s", *configPath)
	for {
		select {
		case cfg, ok := <-watcher.Configs:
			if !ok {
				return
			}
			log.Printf("config changed: %s", cfg.SolverMode)
			run(build, cfg, *steps, *every)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Println(err)
		}
	}
}

func run(build func(*impulse.Space), cfg *impulse.Config, steps, every int) {
	space := impulse.NewSpace()
	space.Config = cfg
	space.Gravity = gravity
	build(space)
	dropFallen(space)

	start := time.Now()
	for i := 1; i <= steps; i++ {
		space.Step(cfg.TimeStep)
		if every > 0 && i%every == 0 {
			log.Printf("step %d\n%s", i, impulse.DebugInfo(space))
		}
	}
	log.Printf("%d steps in %v", steps, time.Since(start))
}

// killY is the height below which bodies are taken out of the simulation.
const killY = -20

// dropFallen removes bodies that fell below killY once the step that moved
// them there is over.
func dropFallen(space *impulse.Space) {
	collide := space.CollideFunc
	if collide == nil {
		return
	}
	space.CollideFunc = func(space *impulse.Space) {
		collide(space)
		for _, body := range space.Bodies {
			if body.Position().Y() < killY {
				space.AddPostStepCallback(removeBody, body, nil)
			}
		}
	}
}

func removeBody(space *impulse.Space, key, _ any) {
	body := key.(*impulse.Body)
	log.Printf("removing body at %v", body.Position())
	space.RemoveBody(body)
}
