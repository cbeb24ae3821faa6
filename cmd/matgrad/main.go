// Package main provides the matgrad CLI.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/matgrad/internal/parallel"
	"github.com/born-ml/matgrad/internal/serialization"
	"github.com/born-ml/matgrad/internal/sine"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("matgrad %s\n", version)
	case "sine":
		if err := runSine(os.Args[2:], os.Stdin, os.Stdout); err != nil {
			log.Fatalf("sine: %v", err)
		}
	case "sweep":
		if err := runSweep(os.Args[2:], os.Stdout); err != nil {
			log.Fatalf("sweep: %v", err)
		}
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "matgrad - reverse-mode autograd over small dense matrices")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  sine       Train a sin(x) regressor, then optionally answer queries")
	fmt.Fprintln(w, "  sweep      Train one regressor per seed concurrently and report the best")
}

func runSine(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("sine", flag.ContinueOnError)
	fs.SetOutput(out)
	points := fs.Int("points", 100, "Training samples over [0, 2π)")
	hidden := fs.Int("hidden", 128, "Hidden layer width")
	epochs := fs.Int("epochs", 1000, "Number of training epochs")
	lr := fs.Float64("lr", 0.01, "Learning rate")
	momentum := fs.Float64("momentum", 0, "SGD momentum")
	optimizer := fs.String("optimizer", sine.OptimizerSGD, "Optimizer: sgd or adam")
	seed := fs.Uint64("seed", 1, "Weight initialization seed")
	pool := fs.Bool("pool", false, "Reuse node buffers across epochs")
	logEvery := fs.Int("log-every", 100, "Log every N epochs")
	csvPath := fs.String("csv", "", "Also write the training set to this CSV file")
	loadPath := fs.String("load", "", "Start from weights saved with -save")
	savePath := fs.String("save", "", "Save trained weights to this file")
	predict := fs.Bool("predict", false, "Read x values from stdin after training and print predictions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requirePositive(fs, "points", "hidden", "epochs", "lr", "log-every"); err != nil {
		return err
	}

	if *csvPath != "" {
		if err := writeDataset(*csvPath, *points); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %d samples to %s\n", *points, *csvPath)
	}

	var initial *serialization.StateDict
	if *loadPath != "" {
		sd, err := serialization.Open(*loadPath)
		if err != nil {
			return err
		}
		initial = sd
		fmt.Fprintf(out, "Loaded %d tensors from %s\n", len(sd.Tensors), *loadPath)
	}

	logger := log.New(out, "", log.LstdFlags)
	fmt.Fprintf(out, "Training sin(x): %d points, hidden %d, %d epochs, %s lr=%g\n",
		*points, *hidden, *epochs, *optimizer, *lr)

	res, err := sine.Train(sine.Config{
		Points:    *points,
		Hidden:    *hidden,
		Epochs:    *epochs,
		LR:        float32(*lr),
		Momentum:  float32(*momentum),
		Optimizer: *optimizer,
		Seed:      *seed,
		Pool:      *pool,
		LogEvery:  *logEvery,
		Logf:      logger.Printf,
		Init:      initial,
	})
	if err != nil {
		return err
	}
	defer res.Model.Release()

	fmt.Fprintf(out, "Final loss: %.6f\n", res.Losses[len(res.Losses)-1])
	fmt.Fprintf(out, "Buffers: %d live, %d peak\n", res.LiveBuffers, res.PeakBuffers)
	if res.Pool != nil {
		fmt.Fprintf(out, "Pool: %d hits, %d misses\n", res.Pool.Hits, res.Pool.Misses)
	}

	if *savePath != "" {
		err := serialization.Save(*savePath, res.Model.Parameters(), serialization.Header{
			ModelType: "sine",
			Metadata: map[string]string{
				"hidden": strconv.Itoa(*hidden),
				"seed":   strconv.FormatUint(*seed, 10),
			},
			CheckpointMeta: &serialization.CheckpointMeta{
				Epoch:         len(res.Losses) - 1,
				Loss:          float64(res.Losses[len(res.Losses)-1]),
				OptimizerType: *optimizer,
			},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved weights to %s\n", *savePath)
	}

	if !*predict {
		return nil
	}
	fmt.Fprintln(out, "\nModel trained! Enter a number to predict sin(x).")
	return answer(res.Model, in, out)
}

// answer reads one x per line and prints the model's prediction.
func answer(model *sine.Model, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		x, err := strconv.ParseFloat(line, 32)
		if err != nil {
			fmt.Fprintf(out, "not a number: %q\n", line)
			continue
		}
		pred, err := model.Predict(float32(x))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "sin(%.6f) ≈ %.6f\n", x, pred)
		fmt.Fprintf(out, "Actual: %.6f\n", math.Sin(x))
	}
	return scanner.Err()
}

// requirePositive rejects numeric flags that are zero or negative. A zero
// would otherwise fall through to the sine.Config default.
func requirePositive(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		f := fs.Lookup(name)
		if v, err := strconv.ParseFloat(f.Value.String(), 64); err != nil || v <= 0 {
			return fmt.Errorf("-%s must be positive, got %s", name, f.Value)
		}
	}
	return nil
}

func writeDataset(path string, points int) error {
	d, err := sine.NewDataset(points)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := d.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSweep(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(out)
	points := fs.Int("points", 100, "Training samples over [0, 2π)")
	hidden := fs.Int("hidden", 32, "Hidden layer width")
	epochs := fs.Int("epochs", 500, "Number of training epochs")
	lr := fs.Float64("lr", 0.01, "Learning rate")
	optimizer := fs.String("optimizer", sine.OptimizerSGD, "Optimizer: sgd or adam")
	seeds := fs.Int("seeds", 8, "Number of seeds, 1..n")
	workers := fs.Int("workers", 0, "Concurrent runs (0 = one per CPU)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requirePositive(fs, "points", "hidden", "epochs", "lr", "seeds"); err != nil {
		return err
	}
	if *workers < 0 {
		return fmt.Errorf("-workers must not be negative, got %d", *workers)
	}

	pcfg := parallel.DefaultConfig()
	if *workers > 0 {
		pcfg = parallel.Config{Enabled: *workers > 1, NumWorkers: *workers}
	}

	list := make([]uint64, *seeds)
	for i := range list {
		list[i] = uint64(i + 1)
	}

	runs, err := sine.Sweep(sine.Config{
		Points:    *points,
		Hidden:    *hidden,
		Epochs:    *epochs,
		LR:        float32(*lr),
		Optimizer: *optimizer,
	}, list, pcfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range runs {
			r.Result.Model.Release()
		}
	}()

	for _, r := range runs {
		fmt.Fprintf(out, "seed %3d: final loss %.6f\n", r.Seed, r.FinalLoss)
	}
	best, _ := sine.Best(runs)
	fmt.Fprintf(out, "Best: seed %d (loss %.6f)\n", best.Seed, best.FinalLoss)
	return nil
}
