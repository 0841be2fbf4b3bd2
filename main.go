package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/GiuMaz/satyricon/internal/dimacs"
	"github.com/GiuMaz/satyricon/internal/sat"
)

// programDescription documents the solver for both --help and the CLI's
// own usage text, grounded on original_source/solver/solver.cpp's
// program_description.
const programDescription = `This program solves propositional logic problems written in conjunctive
normal form. A file with the problem's constraints in DIMACS format may be
given as a positional argument; if none is given, the program reads the
formula from standard input.

The solver is based on the CDCL resolution scheme: after a conflict it
learns a new clause and uses it to prune the remaining search. New decision
literals are chosen with the VSIDS heuristic, which tracks each literal's
recent "activity"; a similar mechanism scores learned clauses, and clauses
with low activity are periodically deleted. The search restarts
periodically, keeping everything learned so far. Before the search starts,
a preprocessing pass removes clauses subsumed by a more general one.

Every one of these features can be tuned or disabled from the command
line, as described below. If the formula is satisfiable and --proof is
given, a model is printed.`

var startTime time.Time

func flags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "set the solver log level to 2 (the solver prints the same progress lines as at the default level 1)",
		},
		cli.BoolFlag{
			Name:  "proof, p",
			Usage: "print the model when the formula is satisfiable",
		},
		cli.BoolFlag{
			Name:  "no-preprocessing",
			Usage: "disable subsumption preprocessing",
		},
		cli.BoolFlag{
			Name:  "no-restart",
			Usage: "disable search restarts",
		},
		cli.BoolFlag{
			Name:  "no-deletion",
			Usage: "disable deletion of learned clauses",
		},
		cli.BoolFlag{
			Name:  "no-random",
			Usage: "disable random selection of a decision literal in 1% of cases",
		},
		cli.BoolFlag{
			Name:  "no-cc-reduction",
			Usage: "disable minimization of the learned clause",
		},
		cli.Float64Flag{
			Name:  "c-decay",
			Usage: "decay factor for clause activity, 0 < x <= 1.0",
			Value: sat.DefaultOptions.ClauseDecay,
		},
		cli.Float64Flag{
			Name:  "l-decay",
			Usage: "decay factor for literal activity, 0 < x <= 1.0",
			Value: sat.DefaultOptions.LiteralDecay,
		},
		cli.UintFlag{
			Name:  "restart-mult, b",
			Usage: "restart interval multiplier",
			Value: sat.DefaultOptions.RestartMultiplier,
		},
		cli.Float64Flag{
			Name:  "learn-mult, l",
			Usage: "initial learn limit, as a multiple of the number of clauses",
			Value: sat.DefaultOptions.LearningMultiplier,
		},
		cli.Float64Flag{
			Name:  "learn-increase, i",
			Usage: "percentage by which the learn limit grows after every reduction",
			Value: sat.DefaultOptions.LearningIncrease,
		},
	}
}

func solverOptions(c *cli.Context) (sat.Options, error) {
	opts := sat.DefaultOptions
	opts.Preprocessing = !c.Bool("no-preprocessing")
	opts.Restart = !c.Bool("no-restart")
	opts.Deletion = !c.Bool("no-deletion")
	opts.RandomChoice = !c.Bool("no-random")
	opts.ConflictReduction = !c.Bool("no-cc-reduction")
	opts.ClauseDecay = c.Float64("c-decay")
	opts.LiteralDecay = c.Float64("l-decay")
	opts.RestartMultiplier = c.Uint("restart-mult")
	opts.LearningMultiplier = c.Float64("learn-mult")
	opts.LearningIncrease = c.Float64("learn-increase")
	if c.Bool("verbose") {
		opts.LogLevel = 2
	}
	return opts, nil
}

// installSignalHandler prints the elapsed time and an UNKNOWN verdict on
// SIGINT/SIGTERM before exiting, grounded on
// original_source/solver/solver.cpp's signalHandler.
func installSignalHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c
		fmt.Printf("Interrupt signal (%s) received.\n", sig)
		fmt.Printf("stopped after: %.2fs\n", time.Since(startTime).Seconds())
		fmt.Println("UNKNOWN")
		os.Exit(1)
	}()
}

func action(c *cli.Context) error {
	opts, err := solverOptions(c)
	if err != nil {
		return err
	}
	s, err := sat.NewSolver(opts)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("invalid configuration: %s", err), 1)
	}

	startTime = time.Now()
	installSignalHandler()

	var conflict bool
	if name := c.Args().First(); name != "" {
		conflict, err = dimacs.Load(name, s)
	} else {
		conflict, err = dimacs.LoadReader(os.Stdin, s)
	}
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("error parsing input: %s", err), 1)
	}

	initTime := time.Since(startTime)
	fmt.Printf("read input and initialized solver in: %.2fs\n", initTime.Seconds())
	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumClauses())

	if conflict {
		fmt.Println("found a conflict during solver construction")
		fmt.Println("UNSATISFIABLE")
		return nil
	}

	satisfiable := s.Solve()
	elapsed := time.Since(startTime)

	fmt.Printf("completed in: %.2fs\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d\n", s.TotalConflicts)
	fmt.Printf("c restarts:   %d\n", s.TotalRestarts)

	if satisfiable {
		fmt.Println("SATISFIABLE")
		if c.Bool("proof") {
			fmt.Print("Model:")
			for _, lit := range s.Model() {
				fmt.Printf(" %d", lit)
			}
			fmt.Println()
		}
	} else {
		fmt.Println("UNSATISFIABLE")
	}

	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "satyricon"
	app.Usage = "a CDCL SAT solver for DIMACS CNF formulas"
	app.Description = programDescription
	app.ArgsUsage = "[input file]"
	app.Flags = flags()
	app.Action = action

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
