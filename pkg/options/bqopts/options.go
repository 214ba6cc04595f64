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

// Package bqopts contains shared options for tools that work with BigQuery
// dataset metadata.
package bqopts

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/apache/beam/bqmeta/pkg/log"
	"github.com/spf13/pflag"
	"golang.org/x/oauth2/google"
)

// Options holds the project and location a tool adopts datasets into.
type Options struct {
	// Project is the Google Cloud Platform project ID.
	Project string
	// Location is the default dataset location, such as "US" or "europe-west1".
	Location string
}

// AddFlags registers the options on the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Project, "project", o.Project, "Google Cloud Platform project ID.")
	fs.StringVar(&o.Location, "location", o.Location, "Default location for datasets that do not set one.")
}

// gcloud is the command used to read the active gcloud configuration.
var gcloud = "gcloud"

// GetProject returns the project, if non empty and exits otherwise.
// Convenience function.
func (o *Options) GetProject(ctx context.Context) string {
	project := o.GetProjectFromFlagOrEnvironment(ctx)
	if project == "" {
		log.Exitf(ctx, "No Google Cloud project specified. Use --project=<project>")
	}
	return project
}

// GetProjectFromFlagOrEnvironment returns the project from the flag, falling
// back to $CLOUDSDK_CORE_PROJECT, the project of the credentials file named
// by $GOOGLE_APPLICATION_CREDENTIALS and finally the active gcloud
// configuration. It returns "" if none is set.
func (o *Options) GetProjectFromFlagOrEnvironment(ctx context.Context) string {
	if o.Project != "" {
		return o.Project
	}
	if env := os.Getenv("CLOUDSDK_CORE_PROJECT"); env != "" {
		log.Infof(ctx, "Using default GCP project %s from $CLOUDSDK_CORE_PROJECT.", env)
		return env
	}
	if project := projectFromCredentialsFile(ctx); project != "" {
		log.Infof(ctx, "Using default GCP project %s from application credentials.", project)
		return project
	}
	cmd := exec.CommandContext(ctx, gcloud, "config", "get-value", "project")
	if out, err := cmd.Output(); err == nil && len(out) > 0 {
		project := strings.TrimSpace(string(out))
		log.Infof(ctx, "Using default GCP project %s from gcloud output.", project)
		return project
	}
	return ""
}

// projectFromCredentialsFile reads the project ID from the file named by
// $GOOGLE_APPLICATION_CREDENTIALS without contacting the metadata server.
func projectFromCredentialsFile(ctx context.Context) string {
	path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf(ctx, "Unable to read credentials file %s: %v", path, err)
		return ""
	}
	creds, err := google.CredentialsFromJSON(ctx, data)
	if err != nil {
		log.Warnf(ctx, "Unable to parse credentials file %s: %v", path, err)
		return ""
	}
	return creds.ProjectID
}
