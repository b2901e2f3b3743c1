// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package joblist

import (
	"errors"

	"github.com/goccy/go-yaml"
)

// DecodeYAML decodes a YAML job list. Unknown keys are rejected so that a
// misspelt working_directory does not silently run a job in the wrong place.
func DecodeYAML(data []byte) (*List, error) {
	list := new(List)
	if err := yaml.UnmarshalWithOptions(data, list, yaml.Strict()); err != nil {
		return nil, errors.Join(ErrInvalidYaml, err)
	}

	return list, nil
}

// EncodeYAML writes the list back out as YAML.
func EncodeYAML(list *List) ([]byte, error) {
	return yaml.Marshal(list)
}
