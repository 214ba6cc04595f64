// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd contains the bqmeta commands.
package cmd

import (
	"context"
	"io"
	stdlog "log"
	"log/slog"
	"os"

	"github.com/apache/beam/bqmeta/pkg/log"
	"github.com/apache/beam/bqmeta/pkg/options/bqopts"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	opts       bqopts.Options
	structured bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "bqmeta",
		Short:         "bqmeta renders, adopts and inspects BigQuery dataset metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), flags)
		},
	}
	flags.opts.AddFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&flags.structured, "structured_logs", false, "Emit logs as structured key=value records.")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Include debug logs.")

	root.AddCommand(
		newRenderCmd(flags),
		newAdoptCmd(flags),
		newDescribeCmd(),
	)
	return root
}

func setupLogging(w io.Writer, flags *rootFlags) {
	if flags.structured {
		level := slog.LevelInfo
		if flags.verbose {
			level = slog.LevelDebug
		}
		log.SetLogger(&log.Structural{Handler: slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})})
		return
	}
	level := log.SevInfo
	if flags.verbose {
		level = log.SevDebug
	}
	log.SetLogger(&log.Standard{Level: level, Out: stdlog.New(w, "", stdlog.LstdFlags)})
}

// Execute runs the bqmeta command line.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		return err
	}
	return nil
}

// readInput reads the named file, or standard input when the name is
// missing or "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
