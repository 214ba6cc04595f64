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

package cmd

import (
	"github.com/apache/beam/bqmeta/internal/errors"
	"github.com/apache/beam/bqmeta/pkg/bqmeta"
	"github.com/apache/beam/bqmeta/pkg/log"
	"github.com/spf13/cobra"
)

func newAdoptCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "adopt [dataset.json]",
		Short: "Adopt a Datasets API JSON document into a project",
		Long: `Adopt reads a dataset in Datasets API JSON from the file or standard input,
scopes it and its unscoped authorized views to the project and prints the
result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := readInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "reading dataset")
			}
			info, err := bqmeta.UnmarshalDatasetJSON(data)
			if err != nil {
				return err
			}

			project := flags.opts.GetProject(ctx)
			if p := info.DatasetID().Project; p != "" && p != project {
				log.Warnf(log.WithDataset(ctx, info.DatasetID().String()), "Moving dataset from project %v to %v", p, project)
			}
			info, err = adopt(info, project, flags.opts.Location)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), info)
		},
	}
}
