package directory

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Employee is the canonical directory record every other package works with.
// Identity is ID; two employees are the same person when their IDs match.
type Employee struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Email         string   `json:"email" yaml:"email"`
	ManagerIDs    []string `json:"managerIds" yaml:"managerIds"`
	ManagerEmail  string   `json:"managerEmail,omitempty" yaml:"managerEmail,omitempty"`
	JobFamilyID   string   `json:"jobFamilyId,omitempty" yaml:"jobFamilyId,omitempty"`
	JobFamilyName string   `json:"jobFamilyName,omitempty" yaml:"jobFamilyName,omitempty"`
	Status        string   `json:"status" yaml:"status"`
}

func (e Employee) HasManager() bool {
	return len(e.ManagerIDs) > 0 || e.ManagerEmail != ""
}

// RawEmployee is the record shape supplied by directory imports. Field names
// vary between sources, so every known alias is accepted here and collapsed
// by Normalize.
type RawEmployee struct {
	ID                 string     `json:"id" yaml:"id"`
	Name               string     `json:"name" yaml:"name"`
	Email              string     `json:"email" yaml:"email"`
	ManagerID          string     `json:"managerId,omitempty" yaml:"managerId,omitempty"`
	ManagerIDs         StringList `json:"managerIds,omitempty" yaml:"managerIds,omitempty"`
	ManagerEmail       string     `json:"managerEmail,omitempty" yaml:"managerEmail,omitempty"`
	JobFamilyID        string     `json:"jobFamilyId,omitempty" yaml:"jobFamilyId,omitempty"`
	JobFamilyName      string     `json:"jobFamilyName,omitempty" yaml:"jobFamilyName,omitempty"`
	JobFamily          string     `json:"jobFamily,omitempty" yaml:"jobFamily,omitempty"`
	JobFamilyNameSnake string     `json:"job_family_name,omitempty" yaml:"job_family_name,omitempty"`
	Family             string     `json:"family,omitempty" yaml:"family,omitempty"`
	Status             string     `json:"status,omitempty" yaml:"status,omitempty"`
}

// StringList accepts either a JSON array of strings or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*l = nil
			return nil
		}
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := node.Decode(&many); err != nil {
		return err
	}
	*l = many
	return nil
}
