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
	"fmt"
	"runtime"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	debugFlagName     = "debug"
	logFormatFlagName = "log-format"
)

// newRootCmd returns the root command of the cpuaffinity CLI with all its sub
// commands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cpuaffinity",
		Short: "Show and set the CPU affinity of a thread",
		Long: `cpuaffinity shows and sets the CPUs a thread is allowed to run on.

CPU lists use the usual textual list format, such as "0-3,8", with CPU
ranges "x-y" and single CPUs "x" separated by ",".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// All sub commands need to work on the same OS-level thread for
			// their whole life, so we never unlock.
			runtime.LockOSThread()
			debug, err := cmd.Flags().GetBool(debugFlagName)
			if err != nil {
				return err
			}
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			format, err := cmd.Flags().GetString(logFormatFlagName)
			if err != nil {
				return err
			}
			var formatter log.Formatter
			switch format {
			case "text":
				formatter = &log.TextFormatter{}
			case "json":
				formatter = &log.JSONFormatter{}
			default:
				return fmt.Errorf("unknown log format %q", format)
			}
			log.SetFormatter(formatter)
			return nil
		},
	}
	rootCmd.PersistentFlags().Bool(debugFlagName, false, "enable debug logging")
	rootCmd.PersistentFlags().String(logFormatFlagName, "text", "log format, either \"text\" or \"json\"")
	rootCmd.AddCommand(newGetCmd(), newSetCmd(), newExecCmd())
	return rootCmd
}
