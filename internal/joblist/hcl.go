// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"errors"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

type hclList struct {
	Name        string   `hcl:"name,optional"`
	Description string   `hcl:"description,optional"`
	Root        string   `hcl:"root,optional"`
	Detach      *bool    `hcl:"detach,optional"`
	Jobs        []hclJob `hcl:"job,block"`
}

type hclJob struct {
	Name             string            `hcl:"name,label"`
	WorkingDirectory string            `hcl:"working_directory,optional"`
	Program          string            `hcl:"program,optional"`
	Arguments        []string          `hcl:"arguments,optional"`
	CommandLine      string            `hcl:"command_line,optional"`
	Env              map[string]string `hcl:"env,optional"`
	Steps            []hclStep         `hcl:"step,block"`
}

type hclStep struct {
	Name        string            `hcl:"name,optional"`
	Program     string            `hcl:"program,optional"`
	Arguments   []string          `hcl:"arguments,optional"`
	CommandLine string            `hcl:"command_line,optional"`
	Env         map[string]string `hcl:"env,optional"`
}

// DecodeHCL decodes an HCL job list. filename is only used in diagnostics.
//
// Expressions can refer to two variables: env, an object of the process
// environment, and base_dir, the directory holding the job list.
func DecodeHCL(filename string, data []byte, baseDir string) (*List, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Join(ErrInvalidHcl, diags)
	}

	var raw hclList
	if diags := gohcl.DecodeBody(file.Body, evalContext(baseDir), &raw); diags.HasErrors() {
		return nil, errors.Join(ErrInvalidHcl, diags)
	}

	list := &List{
		Name:        raw.Name,
		Description: raw.Description,
		Root:        raw.Root,
		Detach:      raw.Detach,
		Jobs:        make([]Job, 0, len(raw.Jobs)),
	}

	for _, j := range raw.Jobs {
		job := Job{
			Name:             j.Name,
			WorkingDirectory: j.WorkingDirectory,
			Program:          j.Program,
			Arguments:        j.Arguments,
			CommandLine:      j.CommandLine,
			Env:              j.Env,
		}

		for _, s := range j.Steps {
			job.Steps = append(job.Steps, Step(s))
		}

		list.Jobs = append(list.Jobs, job)
	}

	return list, nil
}

func evalContext(baseDir string) *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":      cty.ObjectVal(env),
			"base_dir": cty.StringVal(baseDir),
		},
	}
}

// EncodeHCL writes the list as HCL. Unnamed jobs get their positional label,
// since an HCL job block always carries one.
func EncodeHCL(list *List) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	setString(body, "name", list.Name)
	setString(body, "description", list.Description)
	setString(body, "root", list.Root)

	if list.Detach != nil {
		body.SetAttributeValue("detach", cty.BoolVal(*list.Detach))
	}

	for i := range list.Jobs {
		job := &list.Jobs[i]

		body.AppendNewline()

		jb := body.AppendNewBlock("job", []string{job.Label(i)}).Body()
		setString(jb, "working_directory", job.WorkingDirectory)
		setCommand(jb, job.Program, job.Arguments, job.CommandLine, job.Env)

		for _, step := range job.Steps {
			sb := jb.AppendNewBlock("step", nil).Body()
			setString(sb, "name", step.Name)
			setCommand(sb, step.Program, step.Arguments, step.CommandLine, step.Env)
		}
	}

	return f.Bytes()
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}

func setCommand(body *hclwrite.Body, program string, args []string, commandLine string, env map[string]string) {
	setString(body, "program", program)

	if len(args) > 0 {
		vals := make([]cty.Value, 0, len(args))
		for _, a := range args {
			vals = append(vals, cty.StringVal(a))
		}

		body.SetAttributeValue("arguments", cty.ListVal(vals))
	}

	setString(body, "command_line", commandLine)

	if len(env) > 0 {
		vals := make(map[string]cty.Value, len(env))
		for k, v := range env {
			vals[k] = cty.StringVal(v)
		}

		body.SetAttributeValue("env", cty.ObjectVal(vals))
	}
}
