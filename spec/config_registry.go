package spec

import (
	"bytes"
	"encoding/json"

	"github.com/zintix-labs/alloclab/errs"
	"gopkg.in/yaml.v3"
)

// GetProblemSettingByYAML decodes a YAML preset, applies defaults and validates it.
// Unknown fields are rejected.
func GetProblemSettingByYAML(data []byte) (*ProblemSetting, error) {
	ps := &ProblemSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ps); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml")
	}
	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "problem setting initialized err")
	}
	return ps, nil
}

// GetProblemSettingByJSON is the JSON twin of GetProblemSettingByYAML.
func GetProblemSettingByJSON(data []byte) (*ProblemSetting, error) {
	ps := &ProblemSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ps); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal json byte")
	}
	if err := ps.init(); err != nil {
		return nil, errs.Wrap(err, "problem setting initialized err")
	}
	return ps, nil
}
