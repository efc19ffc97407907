package main

import (
	"flag"
	"log"
	"os"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"

	"github.com/DiMoser/PyPinT/plotters"
	"github.com/DiMoser/PyPinT/problems"
	"github.com/DiMoser/PyPinT/reporting"
	"github.com/DiMoser/PyPinT/solvers"
)

// This code effectively only reads the scenario file and runs the SDC solve.

const defaultScenario = "~~unset~~"

var (
	scenario string
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "solver scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "log every iteration and node")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	problem, err := readProblem()
	if err != nil {
		log.Fatalf("could not understand problem: %s", err)
	}
	opts, err := readOptions()
	if err != nil {
		log.Fatalf("could not understand solver options: %s", err)
	}
	if verbose {
		opts.Logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	} else {
		opts.Logger = levelFilter{kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))}
	}

	sdc, err := solvers.NewSDC(problem, opts)
	if err != nil {
		log.Fatalf("solver configuration: %s", err)
	}
	sol, err := sdc.Solve()
	if err != nil {
		log.Fatalf("solve failed: %s", err)
	}

	title := viper.GetString("problem.type")
	if path := viper.GetString("output.report"); path != "" {
		report, err := reporting.NewReport(title, sol)
		if err != nil {
			log.Fatalf("report: %s", err)
		}
		if err := reporting.WriteReportFile(report, path); err != nil {
			log.Fatalf("report: %s", err)
		}
		log.Printf("convergence report written to %s", path)
	}
	if path := viper.GetString("output.solutionPlot"); path != "" {
		if err := plotters.PlotSolution(sol, title, path); err != nil {
			log.Fatalf("solution plot: %s", err)
		}
		log.Printf("solution plot written to %s", path)
	}
	if path := viper.GetString("output.residualPlot"); path != "" {
		if err := plotters.PlotResidualDecay(sol, title, path); err != nil {
			log.Fatalf("residual plot: %s", err)
		}
		log.Printf("residual plot written to %s", path)
	}
	if !sol.Converged() {
		os.Exit(1)
	}
}

func readProblem() (problems.Problem, error) {
	u0 := complex(viper.GetFloat64("problem.initial"), viper.GetFloat64("problem.initialImag"))
	switch kind := viper.GetString("problem.type"); kind {
	case "constant":
		c := complex(viper.GetFloat64("problem.constant"), 0)
		return problems.NewConstant(c, u0), nil
	case "dahlquist":
		lambda := complex(viper.GetFloat64("problem.lambda"), viper.GetFloat64("problem.lambdaImag"))
		return problems.NewDahlquist(lambda, u0), nil
	case "splitDahlquist":
		le := complex(viper.GetFloat64("problem.lambdaExpl"), 0)
		li := complex(viper.GetFloat64("problem.lambdaImpl"), 0)
		return problems.NewSplitDahlquist(le, li, u0), nil
	default:
		return nil, &unknownValueError{"problem.type", kind}
	}
}

func readOptions() (solvers.Options, error) {
	opts := solvers.DefaultOptions()
	if v := viper.GetInt("sdc.timeSteps"); v != 0 {
		opts.NumTimeSteps = v
	}
	if v := viper.GetInt("sdc.nodes"); v != 0 {
		opts.NumNodes = v
	}
	if v := viper.GetFloat64("sdc.tolerance"); v != 0 {
		opts.MinThreshold = v
	}
	if v := viper.GetInt("sdc.maxIterations"); v != 0 {
		opts.MaxThreshold = v
	}
	if v := viper.GetString("sdc.type"); v != "" {
		typ, err := solvers.TypeFromString(v)
		if err != nil {
			return opts, err
		}
		opts.Type = typ
	}
	return opts, nil
}

type unknownValueError struct {
	key, value string
}

func (e *unknownValueError) Error() string {
	return "unsupported " + e.key + " `" + e.value + "`"
}

// levelFilter drops debug records so the default output stays one line per
// iteration.
type levelFilter struct {
	next kitlog.Logger
}

func (f levelFilter) Log(keyvals ...interface{}) error {
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == "level" && keyvals[i+1] == "debug" {
			return nil
		}
	}
	return f.next.Log(keyvals...)
}
