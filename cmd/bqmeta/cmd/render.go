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
	"encoding/json"
	"io"

	"github.com/apache/beam/bqmeta/internal/errors"
	"github.com/apache/beam/bqmeta/pkg/bqmeta"
	"github.com/apache/beam/bqmeta/pkg/bqmeta/defs"
	"github.com/apache/beam/bqmeta/pkg/log"
	"github.com/spf13/cobra"
)

func newRenderCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "render <definitions.yaml>...",
		Short: "Render dataset definitions as Datasets API JSON",
		Long: `Render loads YAML dataset definitions, adopts every dataset and unscoped
authorized view into the project and prints one JSON document per dataset.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			infos, err := defs.Load(ctx, args...)
			if err != nil {
				return err
			}

			project := flags.opts.GetProjectFromFlagOrEnvironment(ctx)
			if project == "" {
				log.Warnf(ctx, "No project found; datasets without one are rendered unscoped.")
			}
			for _, info := range infos {
				info, err := adopt(info, project, flags.opts.Location)
				if err != nil {
					return err
				}
				log.Debugf(log.WithDataset(ctx, info.DatasetID().String()), "Rendering %v", info)
				if err := writeJSON(cmd.OutOrStdout(), info); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// adopt scopes info to project, if any, and fills in location when the
// dataset leaves it unset.
func adopt(info *bqmeta.DatasetInfo, project, location string) (*bqmeta.DatasetInfo, error) {
	if project != "" {
		info = info.WithProjectID(project)
	}
	if location == "" || !info.Location().IsUnset() {
		return info, nil
	}
	located, err := info.ToBuilder().SetLocation(location).Build()
	if err != nil {
		return nil, errors.WithContextf(err, "setting location of %v", info.DatasetID())
	}
	return located, nil
}

func writeJSON(w io.Writer, info *bqmeta.DatasetInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encoding %v", info.DatasetID())
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
