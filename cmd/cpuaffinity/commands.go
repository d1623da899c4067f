// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

//go:build linux || freebsd

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/thediveo/affinity"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the CPU affinity list of this thread",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := affinity.ThreadAffinity()
			if err != nil {
				return err
			}
			log.Debugf("thread affinity mask %x", set[:])
			fmt.Fprintln(cmd.OutOrStdout(), set.String())
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set CPULIST",
		Short: "Set the CPU affinity of this thread and show the resulting affinity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cpulist, err := affinity.NewList([]byte(args[0]))
			if err != nil {
				return fmt.Errorf("invalid CPU list %q: %w", args[0], err)
			}
			set, err := cpulist.Set()
			if err != nil {
				return err
			}
			log.Debugf("setting thread affinity to CPUs %s", set.String())
			if err := affinity.PinThread(set); err != nil {
				return err
			}
			cpus, err := affinity.GetThreadAffinity()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), listOf(cpus).String())
			return nil
		},
	}
}

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec CPULIST -- COMMAND [ARG...]",
		Short: "Run a command with the specified CPU affinity",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dash := cmd.ArgsLenAtDash(); dash >= 0 && dash != 1 {
				return errors.New("expected a single CPU list before \"--\"")
			}
			cpulist, err := affinity.NewList([]byte(args[0]))
			if err != nil {
				return fmt.Errorf("invalid CPU list %q: %w", args[0], err)
			}
			set, err := cpulist.Set()
			if err != nil {
				return err
			}
			path, err := exec.LookPath(args[1])
			if err != nil {
				return err
			}
			if err := affinity.PinThread(set); err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"cpus":    set.String(),
				"command": path,
			}).Debug("executing pinned command")
			// The exec'ed program inherits the affinity of the thread calling
			// execve.
			return unix.Exec(path, args[1:], os.Environ())
		},
	}
}

// listOf returns the CPU list for the passed ascending CPU numbers.
func listOf(cpus []uint) affinity.List {
	l := affinity.List{}
	for _, cpu := range cpus {
		if n := len(l); n > 0 && l[n-1][1]+1 == cpu {
			l[n-1][1] = cpu
			continue
		}
		l = append(l, [2]uint{cpu, cpu})
	}
	return l
}
