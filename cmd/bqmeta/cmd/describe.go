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
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/beam/bqmeta/internal/errors"
	"github.com/apache/beam/bqmeta/pkg/bqmeta"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [dataset.json]",
		Short: "Describe a Datasets API JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return errors.Wrap(err, "reading dataset")
			}
			info, err := bqmeta.UnmarshalDatasetJSON(data)
			if err != nil {
				return err
			}
			describe(cmd.OutOrStdout(), info, now())
			return nil
		},
	}
}

func describe(w io.Writer, info *bqmeta.DatasetInfo, at time.Time) {
	fmt.Fprintln(w, info)
	fmt.Fprintf(w, "Dataset:        %v\n", info.DatasetID())
	if t, ok := info.CreationTime().Get(); ok {
		fmt.Fprintf(w, "Created:        %v (%v)\n", t.Format(time.RFC3339), humanize.RelTime(t, at, "ago", "from now"))
	}
	if t, ok := info.LastModified().Get(); ok {
		fmt.Fprintf(w, "Last modified:  %v (%v)\n", t.Format(time.RFC3339), humanize.RelTime(t, at, "ago", "from now"))
	}
	switch f := info.DefaultTableLifetime(); {
	case f.IsSet():
		fmt.Fprintf(w, "Table lifetime: %v\n", lifetime(f.Value()))
	case f.IsCleared():
		fmt.Fprintln(w, "Table lifetime: cleared")
	}
	if acl := info.Acl(); acl != nil {
		fmt.Fprintf(w, "Access entries: %v\n", humanize.Comma(int64(len(acl))))
	}
}

// lifetime renders d the way humanize renders elapsed time, such as
// "4 weeks".
func lifetime(d time.Duration) string {
	var epoch time.Time
	return strings.TrimSpace(humanize.RelTime(epoch, epoch.Add(d), "", ""))
}
