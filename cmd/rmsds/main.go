/*
 * main.go, part of rmsds.
 *
 * Copyright 2026 Daniel Barriga
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// rmsds computes the all-pairs optimal-superposition RMSD matrix of a
// trajectory and writes it as text, with an optional heat-map rendering.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbarriga/rmsds"
	"github.com/dbarriga/rmsds/rmsdplot"
	"github.com/dbarriga/rmsds/traj/dcd"
	"github.com/dbarriga/rmsds/traj/stf"
)

type cliFlags struct {
	sel       string
	begin     int
	end       int
	skip      int
	cpus      int
	streaming bool
	precision int
	step      float64
	memWarn   float64
	noout     bool
	out       string
	plot      string
	quiet     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var fl cliFlags
	cmd := &cobra.Command{
		Use:   "rmsds [flags] trajectory",
		Short: "all-pairs RMSD matrix of a trajectory",
		Long: `rmsds computes the pairwise RMSD between all frames of a trajectory,
superposing each pair optimally before measuring, and prints the
resulting symmetric matrix. The trajectory format is taken from the
file extension: .dcd for CHARMM/NAMD binary trajectories, anything
else for the stf text format.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &fl, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.sel, "sel", "", "comma-separated atom indexes and ranges to use, e.g. 0-9,12 (default all atoms)")
	f.IntVar(&fl.begin, "begin", 0, "first frame to consider")
	f.IntVar(&fl.end, "end", -1, "frame at which to stop, exclusive (-1 for the whole trajectory)")
	f.IntVar(&fl.skip, "skip", 0, "frames to skip between considered frames")
	f.IntVar(&fl.cpus, "cpus", 1, "workers evaluating frame pairs")
	f.BoolVar(&fl.streaming, "streaming", false, "re-read frames from disk instead of caching them in memory")
	f.IntVar(&fl.precision, "precision", 2, "decimals in the printed matrix")
	f.Float64Var(&fl.step, "step", 0.1, "fraction of the work between progress lines")
	f.Float64Var(&fl.memWarn, "mem-warn", 0.66, "fraction of physical memory the cache may reach before warning")
	f.BoolVar(&fl.noout, "noout", false, "compute the matrix but don't print it")
	f.StringVarP(&fl.out, "out", "o", "", "write the matrix to this file instead of stdout")
	f.StringVar(&fl.plot, "plot", "", "also render the matrix as a heat map to this PNG file")
	f.BoolVar(&fl.quiet, "quiet", false, "suppress progress reporting")
	return cmd
}

// seekTraj is what run needs from a trajectory: random frame access plus
// a way to release the file.
type seekTraj interface {
	rmsds.SeekTraj
	Close()
}

func openTraj(name string) (seekTraj, error) {
	if strings.ToLower(filepath.Ext(name)) == ".dcd" {
		return dcd.New(name)
	}
	t, _, err := stf.New(name)
	return t, err
}

// endFrame resolves the -1 default of --end to the trajectory length,
// counting frames by hand when the format can't tell.
func endFrame(t seekTraj, end int) (int, error) {
	if end >= 0 {
		return end, nil
	}
	if ft, ok := t.(interface{ Frames() int }); ok {
		return ft.Frames(), nil
	}
	n := 0
	for {
		err := t.Next(nil)
		if err != nil {
			if _, ok := err.(rmsds.LastFrameError); ok {
				break
			}
			return 0, err
		}
		n++
	}
	return n, t.SeekFrame(0)
}

// parseSelection expands a 0-9,12,15 style list into sorted-as-given atom
// indexes. An empty selection means every atom.
func parseSelection(sel string, natoms int) ([]int, error) {
	if sel == "" {
		all := make([]int, natoms)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	var indexes []int
	for _, field := range strings.Split(sel, ",") {
		lo, hi, found := strings.Cut(field, "-")
		a, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("selection: bad index %q: %w", lo, err)
		}
		b := a
		if found {
			b, err = strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("selection: bad index %q: %w", hi, err)
			}
		}
		if a > b {
			return nil, fmt.Errorf("selection: reversed range %q", field)
		}
		for i := a; i <= b; i++ {
			indexes = append(indexes, i)
		}
	}
	return indexes, nil
}

// invocationHeader reproduces the command line and the date, so a matrix
// file carries its own provenance.
func invocationHeader() string {
	return fmt.Sprintf("%s - %s", strings.Join(os.Args, " "), time.Now().Format(time.ANSIC))
}

func run(ctx context.Context, fl *cliFlags, trajname string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	t, err := openTraj(trajname)
	if err != nil {
		return err
	}
	defer t.Close()
	sel, err := parseSelection(fl.sel, t.Len())
	if err != nil {
		return err
	}
	end, err := endFrame(t, fl.end)
	if err != nil {
		return err
	}
	frames := rmsds.FrameRange(fl.begin, end, fl.skip)
	o := rmsds.DefaultOptions()
	o.Cpus = fl.cpus
	o.Streaming = fl.streaming
	o.Precision = fl.precision
	o.ProgressStep = fl.step
	o.MemoryWarnFraction = fl.memWarn
	if !fl.quiet {
		o.Progress = os.Stderr
	}
	cache, err := rmsds.NewCoordCache(t, frames, sel, o)
	if err != nil {
		return err
	}
	m, err := rmsds.Pairwise(ctx, cache, o)
	if err != nil {
		return err
	}
	if !fl.noout {
		w := os.Stdout
		if fl.out != "" {
			w, err = os.Create(fl.out)
			if err != nil {
				return err
			}
			defer w.Close()
		}
		if err := m.Write(w, invocationHeader(), o.Precision); err != nil {
			return err
		}
	}
	if fl.plot != "" {
		if err := rmsdplot.PNG(m, filepath.Base(trajname), fl.plot); err != nil {
			return err
		}
	}
	return nil
}
